package cmd

import (
	"os"

	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/spf13/cobra"
)

var (
	feedFilter  string
	feedSpecies string
	feedSearch  string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Feed commands",
	Long:  "Browse and search the proposals feed",
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show one page of the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, closeFn, err := openFeed(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		return fs.List(cmd.Context(), feedSpec())
	},
}

var feedWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Browse the feed interactively",
	Long: `Browse the feed interactively. Each line typed becomes the search text.
  :mode <mode>   switch to latest, oldest, top-liked, less-liked, popular, all,
                 or a species (human, company, ai)
  :refresh       fetch the current feed again
  :quit          leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, closeFn, err := openFeed(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		return fs.Watch(cmd.Context(), os.Stdin, feedSpec())
	},
}

func feedSpec() feed.FilterSpec {
	if feedSpecies != "" {
		return feed.NewFilterSpec(feedSpecies, feedSearch)
	}
	return feed.NewFilterSpec(feedFilter, feedSearch)
}

func init() {
	for _, c := range []*cobra.Command{feedListCmd, feedWatchCmd} {
		c.Flags().StringVar(&feedFilter, "filter", "latest", "Feed mode: all, latest, oldest, top-liked, less-liked, popular")
		c.Flags().StringVar(&feedSpecies, "species", "", "Only show proposals by human, company or ai authors")
		c.Flags().StringVar(&feedSearch, "search", "", "Only show proposals whose title contains this text")
	}
	feedCmd.AddCommand(feedListCmd)
	feedCmd.AddCommand(feedWatchCmd)
}
