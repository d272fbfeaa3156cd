// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/loopdex/internal/app"
	"github.com/taibuivan/loopdex/internal/core/search"
)

func newSearchCommand(s *session) *cobra.Command {
	var page, limit int
	var safe bool

	cmd := &cobra.Command{
		Use:   "search [tokens...]",
		Short: "Run a tag search",
		Long: `Run a tag search exactly as the API does.

Plain tokens must all match, "-token" excludes, "rating:safe" or
"rating:explicit" filters the rating. Pages start at 0.`,
		Example: `  loopdexctl search red fox -nsfw
  loopdexctl search foxes rating:safe --page 1 --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := search.ParseQuery(strings.Join(args, " "))
			query.Page, query.Limit, query.SafeOnly = page, limit, safe

			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				result, err := catalog.Search.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				return s.print(result)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "zero-indexed page")
	cmd.Flags().IntVar(&limit, "limit", 20, "results per page")
	cmd.Flags().BoolVar(&safe, "safe", false, "restrict to safe items")

	return cmd
}
