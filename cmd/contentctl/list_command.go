package main

import (
	"fmt"
	"strings"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/agyouthrise/rise-backend/internal/store"
	"github.com/spf13/cobra"
)

type listOptions struct {
	search   string
	category string
	limit    int
	json     bool
}

func (o listOptions) query() service.ListQuery {
	return service.ListQuery{
		Search:   strings.TrimSpace(o.search),
		Category: domain.Category(strings.ToLower(o.category)),
		Limit:    o.limit,
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list <blogs|podcasts|gallery>",
		Short: "Print the current snapshot of a collection, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			q := opts.query()
			if q.Category != "" && !q.Category.Valid() {
				return fmt.Errorf("unknown category %q", q.Category)
			}

			return ctx.withStore(cmd.Context(), func(client *store.Client) error {
				items, err := snapshotItems(cmd, client, kind, q)
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd, items)
				}
				if count(items) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s\n", kind)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(items))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.search, "query", "q", "", "Case-insensitive title/description search")
	cmd.Flags().StringVar(&opts.category, "category", "", "Gallery category (event, training, community, general)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Show at most N items")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Emit JSON instead of a table")
	return cmd
}

// snapshotItems reads the full collection and applies the read-view filters
func snapshotItems(cmd *cobra.Command, client *store.Client, kind domain.Kind, q service.ListQuery) (interface{}, error) {
	switch kind {
	case domain.KindPosts:
		posts, err := client.Posts.Snapshot(cmd.Context())
		if err != nil {
			return nil, err
		}
		return service.FilterPosts(posts, q), nil
	case domain.KindEpisodes:
		episodes, err := client.Episodes.Snapshot(cmd.Context())
		if err != nil {
			return nil, err
		}
		return service.FilterEpisodes(episodes, q), nil
	default:
		items, err := client.Gallery.Snapshot(cmd.Context())
		if err != nil {
			return nil, err
		}
		return service.FilterGallery(items, q), nil
	}
}

func count(items interface{}) int {
	switch v := items.(type) {
	case []domain.Post:
		return len(v)
	case []domain.EpisodeView:
		return len(v)
	case []domain.GalleryItem:
		return len(v)
	}
	return 0
}
