package main

import (
	"fmt"

	"github.com/samvad-hq/samvad-news-feed/pkg/feed"
	"github.com/spf13/cobra"
)

func newURLCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the request URL built from configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			u, err := feed.Query{
				BaseURL: cfg.APIBaseURL,
				Keyword: cfg.QueryKeyword,
				Section: cfg.QuerySection,
				APIKey:  cfg.APIKey,
			}.URL()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
}
