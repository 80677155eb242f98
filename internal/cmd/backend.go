package cmd

import (
	"github.com/Galinha2/super-nova-2177/pkg/service"
	"github.com/spf13/cobra"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Choose where the feed comes from",
	Long:  "When the backend is off, the feed shows generated demo proposals. When on, the configured mode (rest, db or demo) is used.",
}

func backendService() (*service.BackendService, error) {
	sess, err := openSession()
	if err != nil {
		return nil, err
	}
	return service.NewBackendService(sess), nil
}

var backendShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the backend selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		bs, err := backendService()
		if err != nil {
			return err
		}
		return bs.Show()
	},
}

var backendOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Use the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		bs, err := backendService()
		if err != nil {
			return err
		}
		return bs.SetActive(true)
	},
}

var backendOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Use demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		bs, err := backendService()
		if err != nil {
			return err
		}
		return bs.SetActive(false)
	},
}

var backendModeCmd = &cobra.Command{
	Use:       "mode <rest|db|demo>",
	Short:     "Set the backend mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"rest", "db", "demo"},
	RunE: func(cmd *cobra.Command, args []string) error {
		bs, err := backendService()
		if err != nil {
			return err
		}
		return bs.SetMode(args[0])
	},
}

func init() {
	backendCmd.AddCommand(backendShowCmd)
	backendCmd.AddCommand(backendOnCmd)
	backendCmd.AddCommand(backendOffCmd)
	backendCmd.AddCommand(backendModeCmd)
}
