package cmd

import (
	"github.com/Galinha2/super-nova-2177/pkg/service"
	"github.com/spf13/cobra"
)

var (
	profileName    string
	profileSpecies string
	profileAvatar  string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the local profile",
	Long:  "The profile is the name and species your votes, comments and posts are attributed to. It is stored locally and never authenticated.",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		return service.NewProfileService(sess).Show()
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}

		var u service.ProfileUpdate
		if cmd.Flags().Changed("name") {
			u.Name = &profileName
		}
		if cmd.Flags().Changed("species") {
			u.Species = &profileSpecies
		}
		if cmd.Flags().Changed("avatar") {
			u.Avatar = &profileAvatar
		}
		_, err = service.NewProfileService(sess).Set(u)
		return err
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileSetCmd.Flags().StringVar(&profileSpecies, "species", "", "human, company or ai")
	profileSetCmd.Flags().StringVar(&profileAvatar, "avatar", "", "Avatar image URL (.jpg, .jpeg or .png)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}
