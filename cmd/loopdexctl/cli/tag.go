// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/loopdex/internal/app"
	"github.com/taibuivan/loopdex/internal/core/tag"
	"github.com/taibuivan/loopdex/pkg/slice"
)

func newTagCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Curate canonical tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Resolve a name or alias to its canonical tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				found, err := catalog.Tags.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return s.print(found)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "category NAME CATEGORY",
		Short:     "Change the category of a tag",
		Args:      cobra.ExactArgs(2),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				updated, err := catalog.Tags.SetCategory(cmd.Context(), args[0], tag.Category(args[1]))
				if err != nil {
					return err
				}
				return s.print(updated)
			})
		},
	})

	cmd.AddCommand(newListReplaceCommand(s, listReplace{
		use:   "aliases NAME",
		short: "List or replace the aliases of a tag",
		list: func(catalog *app.App, cmd *cobra.Command, name string) (any, error) {
			return catalog.Tags.ListAliases(cmd.Context(), name)
		},
		replace: func(catalog *app.App, cmd *cobra.Command, name string, values []string) (any, error) {
			return catalog.Tags.ReplaceAliases(cmd.Context(), name, values)
		},
	}))

	cmd.AddCommand(newListReplaceCommand(s, listReplace{
		use:   "implications NAME",
		short: "List or replace the tags a tag implies",
		list: func(catalog *app.App, cmd *cobra.Command, name string) (any, error) {
			return catalog.Tags.ListImplications(cmd.Context(), name)
		},
		replace: func(catalog *app.App, cmd *cobra.Command, name string, values []string) (any, error) {
			return catalog.Tags.ReplaceImplications(cmd.Context(), name, values)
		},
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a tag with its aliases and every item link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				if err := catalog.Tags.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(s.out, "deleted %s\n", args[0])
				return err
			})
		},
	})

	return cmd
}

func categoryNames() []string {
	return slice.Map(tag.Categories, func(c tag.Category) string { return string(c) })
}

// listReplace describes a "show the set, or --set it" subcommand.
type listReplace struct {
	use     string
	short   string
	list    func(catalog *app.App, cmd *cobra.Command, parent string) (any, error)
	replace func(catalog *app.App, cmd *cobra.Command, parent string, values []string) (any, error)
}

// newListReplaceCommand prints the current set, or replaces it when --set is
// given. An explicit empty --set="" clears the set.
func newListReplaceCommand(s *session, def listReplace) *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   def.use,
		Short: def.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withCatalog(cmd.Context(), func(catalog *app.App) error {
				var (
					result any
					err    error
				)
				if cmd.Flags().Changed("set") {
					result, err = def.replace(catalog, cmd, args[0], nonEmpty(values))
				} else {
					result, err = def.list(catalog, cmd, args[0])
				}
				if err != nil {
					return err
				}
				return s.print(result)
			})
		},
	}

	cmd.Flags().StringSliceVar(&values, "set", nil, "replace the whole set (comma separated)")
	return cmd
}

// nonEmpty drops the blank entry pflag produces for --set="".
func nonEmpty(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, value := range values {
		if value != "" {
			kept = append(kept, value)
		}
	}
	return kept
}
