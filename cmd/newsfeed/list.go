package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samvad-hq/samvad-news-feed/internal/app"
	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
	"github.com/spf13/cobra"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var (
		rawURL    string
		open      int
		skipProbe bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Load the newest articles and print them",
		Long: `Load the first page of newest articles and print them as a table.

Examples:
  newsfeed list                    # Default football query
  newsfeed list --keyword cricket  # Different keyword
  newsfeed list --open 0           # Preview the first article
  newsfeed list --json             # Output articles as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Close()

			out := cmd.OutOrStdout()
			viewOut := out
			if asJSON {
				viewOut = io.Discard
			}

			reader, err := app.NewReader(cmd.Context(), cfg, log, app.Options{
				URL:       rawURL,
				SkipProbe: skipProbe,
				Out:       viewOut,
				Colors:    !root.noColor,
			})
			if err != nil {
				return fmt.Errorf("init reader: %w", err)
			}
			defer func() {
				if err := reader.Close(); err != nil {
					log.ErrorObj("reader close failed", "error", err)
				}
			}()

			state, err := reader.Run(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(out, state)
			}
			if open >= 0 && state.Kind == domain.StateSucceeded {
				return reader.Open(cmd.Context(), open)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawURL, "url", "", "request URL to load instead of the configured query")
	cmd.Flags().IntVar(&open, "open", -1, "preview the article at this index after loading")
	cmd.Flags().BoolVar(&skipProbe, "skip-probe", false, "skip the connectivity check")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	return cmd
}

type listOutput struct {
	State    string           `json:"state"`
	Reason   string           `json:"reason,omitempty"`
	Articles []domain.Article `json:"articles"`
}

func writeJSON(w io.Writer, state domain.LoadState) error {
	articles := state.Articles
	if articles == nil {
		articles = []domain.Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listOutput{
		State:    state.Kind.String(),
		Reason:   string(state.Reason),
		Articles: articles,
	})
}
