package cmd

import (
	"github.com/Galinha2/super-nova-2177/internal/tally"
	"github.com/spf13/cobra"
)

var tallyLevel string

var tallyCmd = &cobra.Command{
	Use:   "tally <proposal-id>",
	Short: "Show the species breakdown and weighted decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := tally.ParseLevel(tallyLevel)
		if err != nil {
			return err
		}

		fs, closeFn, err := openFeed(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		return fs.Tally(cmd.Context(), args[0], level)
	},
}

func init() {
	tallyCmd.Flags().StringVar(&tallyLevel, "level", "standard", "Decision level: standard (60%) or important (90%)")
}
