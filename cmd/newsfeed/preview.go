package main

import (
	"fmt"

	"github.com/samvad-hq/samvad-news-feed/internal/logger"
	"github.com/samvad-hq/samvad-news-feed/internal/viewer"
	"github.com/samvad-hq/samvad-news-feed/pkg/httpclient"
	"github.com/spf13/cobra"
)

func newPreviewCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <article-url>",
		Short: "Show the title and description an article page advertises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Close()

			client := httpclient.NewRestyClientWithTimeouts(httpclient.Timeouts{
				Connect: cfg.ConnectTimeout,
				Read:    cfg.ReadTimeout,
			})
			return viewer.New(client, cmd.OutOrStdout(), log).Open(args[0])
		},
	}
}
