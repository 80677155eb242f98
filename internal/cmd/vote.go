package cmd

import (
	"fmt"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/spf13/cobra"
)

var voteCmd = &cobra.Command{
	Use:   "vote <proposal-id> <up|down>",
	Short: "Vote on a proposal",
	Long:  "Vote on a proposal as your profile. Voting the same way twice removes the vote.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		choice, ok := models.ParseChoice(args[1])
		if !ok {
			return fmt.Errorf("invalid vote %q: use up or down", args[1])
		}

		fs, closeFn, err := openFeed(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		_, err = fs.Vote(cmd.Context(), args[0], choice)
		return err
	},
}
