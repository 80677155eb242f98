package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment <proposal-id> <text...>",
	Short: "Comment on a proposal",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, closeFn, err := openFeed(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		_, err = fs.Comment(cmd.Context(), args[0], strings.Join(args[1:], " "))
		return err
	},
}
