// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/loopdex/internal/app"
	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/pkg/pagination"
)

func newItemCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Inspect and moderate catalog items",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show KEY",
		Short: "Print one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				found, err := catalog.Items.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return s.print(found)
			})
		},
	})

	cmd.AddCommand(newPendingCommand(s))

	cmd.AddCommand(&cobra.Command{
		Use:       "vet KEY RATING",
		Short:     "Approve an item as safe or explicit",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(item.RatingSafe), string(item.RatingExplicit)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				vetted, err := catalog.Items.Vet(cmd.Context(), operator, args[0], item.Rating(args[1]))
				if err != nil {
					return err
				}
				return s.print(vetted)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unrate KEY",
		Short: "Send an item back to the pending queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				if _, err := catalog.Items.SetRating(cmd.Context(), args[0], item.RatingUnrated); err != nil {
					return err
				}
				updated, err := catalog.Items.SetApprover(cmd.Context(), args[0], "")
				if err != nil {
					return err
				}
				return s.print(updated)
			})
		},
	})

	cmd.AddCommand(newListReplaceCommand(s, listReplace{
		use:   "tags KEY",
		short: "List or replace the tags of an item",
		list: func(catalog *app.App, cmd *cobra.Command, key string) (any, error) {
			return catalog.Items.ListTags(cmd.Context(), key)
		},
		replace: func(catalog *app.App, cmd *cobra.Command, key string, values []string) (any, error) {
			return catalog.Items.ReplaceTags(cmd.Context(), key, values)
		},
	}))

	cmd.AddCommand(newListReplaceCommand(s, listReplace{
		use:   "sources KEY",
		short: "List or replace the source URLs of an item",
		list: func(catalog *app.App, cmd *cobra.Command, key string) (any, error) {
			return catalog.Items.ListSources(cmd.Context(), key)
		},
		replace: func(catalog *app.App, cmd *cobra.Command, key string, values []string) (any, error) {
			return catalog.Items.ReplaceSources(cmd.Context(), key, values)
		},
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete KEY",
		Short: "Delete an item with its tag links and sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				if err := catalog.Items.Delete(cmd.Context(), operator, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(s.out, "deleted %s\n", args[0])
				return err
			})
		},
	})

	return cmd
}

func newPendingCommand(s *session) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List unrated items, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				items, total, err := catalog.Items.ListPending(cmd.Context(), page, limit)
				if err != nil {
					return err
				}
				params := pagination.New(page, limit)
				return s.print(map[string]any{
					"items": items,
					"meta":  pagination.NewMeta(params.Page, params.Limit, total),
				})
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", pagination.DefaultPage, "zero-indexed page")
	cmd.Flags().IntVar(&limit, "limit", pagination.DefaultLimit, "items per page")
	return cmd
}
