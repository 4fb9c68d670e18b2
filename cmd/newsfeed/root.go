package main

import (
	"github.com/samvad-hq/samvad-news-feed/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	keyword string
	section string
	noColor bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "newsfeed",
		Short:         "Fetch and show the latest news headlines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.keyword, "keyword", "", "search keyword (overrides QUERY_KEYWORD)")
	root.PersistentFlags().StringVar(&opts.section, "section", "", "content section (overrides QUERY_SECTION)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newListCmd(opts), newURLCmd(opts), newPreviewCmd(opts))
	return root
}

// loadConfig applies command-line overrides on top of env/config values.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.keyword != "" {
		cfg.QueryKeyword = o.keyword
	}
	if o.section != "" {
		cfg.QuerySection = o.section
	}
	return cfg, nil
}
