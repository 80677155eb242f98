// Package cmd holds the supernova command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/backend"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/pkg/config"
	"github.com/Galinha2/super-nova-2177/pkg/notify"
	"github.com/Galinha2/super-nova-2177/pkg/output"
	"github.com/Galinha2/super-nova-2177/pkg/service"
	"github.com/Galinha2/super-nova-2177/pkg/session"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "supernova",
	Short: "superNova_2177 - proposals feed for humans, companies and AIs",
	Long: `supernova reads and writes the superNova_2177 proposals feed from the
terminal: browse and search proposals, vote, comment, publish, and see how
each species voted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		if !output.ValidateOutputFormat(outputFmt) {
			return fmt.Errorf("invalid --output %q: use text, json or table", outputFmt)
		}
		if cmd.Flags().Changed("output") {
			config.Override("output.format", outputFmt)
		}

		level := config.GetString("log.level")
		if verbose {
			level = "debug"
		}
		if err := logger.Initialize(logger.Options{Level: level, File: config.GetString("log.file")}); err != nil {
			return fmt.Errorf("error initializing logger: %w", err)
		}
		notify.Init(os.Stderr, verbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Close()
	},
}

// Execute runs the command tree. Ctrl-C cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		notify.Errors(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/supernova/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(backendCmd)
	rootCmd.AddCommand(tallyCmd)
	rootCmd.AddCommand(versionCmd)
}

func openSession() (*session.Session, error) {
	return session.Open(config.GetConfigDir())
}

// openFeed opens the session and the backend it selects. The returned
// function releases the backend.
func openFeed(ctx context.Context) (*service.FeedService, func(), error) {
	sess, err := openSession()
	if err != nil {
		return nil, nil, err
	}

	sel, err := backend.Open(ctx, backendOptions(sess.BackendActive()))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := sel.Close(); err != nil {
			notify.Warn("Failed to close backend", "err", err)
		}
	}
	return service.NewFeedService(sel, sess), closeFn, nil
}

func backendOptions(active bool) backend.Options {
	return backend.Options{
		Active:     active,
		Mode:       config.GetString("backend.mode"),
		APIBaseURL: config.GetString("api.base_url"),
		APITimeout: time.Duration(config.GetInt("api.timeout")) * time.Second,
		DBDriver:   config.GetString("database.driver"),
		DSN:        config.GetString("database.dsn"),
		Storage: backend.StorageOptions{
			Driver:   config.GetString("storage.driver"),
			Region:   config.GetString("storage.s3.region"),
			Bucket:   config.GetString("storage.s3.bucket"),
			BaseURL:  config.GetString("storage.base_url"),
			LocalDir: config.GetString("storage.local_dir"),
		},
		DemoSeed:  uint64(config.GetInt("demo.seed")),
		DemoCount: config.GetInt("demo.count"),
	}
}
