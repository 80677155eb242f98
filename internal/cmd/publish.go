package cmd

import (
	"github.com/Galinha2/super-nova-2177/pkg/service"
	"github.com/spf13/cobra"
)

var publishOpts service.PublishOptions

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a new proposal",
	Long: `Publish a new proposal as your profile. Attach at most one of --image,
--video, --link or --file. --image and --file accept a local path, which is
uploaded first, or a URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, closeFn, err := openFeed(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		_, err = fs.Publish(cmd.Context(), publishOpts)
		return err
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishOpts.Title, "title", "", "Proposal title")
	publishCmd.Flags().StringVar(&publishOpts.Body, "body", "", "Proposal description")
	publishCmd.Flags().StringVar(&publishOpts.Image, "image", "", "Image path or URL")
	publishCmd.Flags().StringVar(&publishOpts.Video, "video", "", "Video URL")
	publishCmd.Flags().StringVar(&publishOpts.Link, "link", "", "Link URL")
	publishCmd.Flags().StringVar(&publishOpts.File, "file", "", "File path or URL")
}
