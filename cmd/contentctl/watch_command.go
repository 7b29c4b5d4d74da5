package main

import (
	"fmt"
	"io"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/agyouthrise/rise-backend/internal/store"
	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var opts listOptions
	var maxUpdates int

	cmd := &cobra.Command{
		Use:   "watch <blogs|podcasts|gallery>",
		Short: "Print a collection every time it changes (Ctrl-C to stop)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			q := opts.query()

			return ctx.withStore(cmd.Context(), func(client *store.Client) error {
				w := &snapshotWriter{out: cmd.OutOrStdout(), kind: kind, max: maxUpdates}
				switch kind {
				case domain.KindPosts:
					return watchCollection(cmd, client.Posts.Subscribe(cmd.Context()), w, func(items []domain.Post) interface{} {
						return service.FilterPosts(items, q)
					})
				case domain.KindEpisodes:
					return watchCollection(cmd, client.Episodes.Subscribe(cmd.Context()), w, func(items []domain.Episode) interface{} {
						return service.FilterEpisodes(items, q)
					})
				default:
					return watchCollection(cmd, client.Gallery.Subscribe(cmd.Context()), w, func(items []domain.GalleryItem) interface{} {
						return service.FilterGallery(items, q)
					})
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.search, "query", "q", "", "Case-insensitive title/description search")
	cmd.Flags().StringVar(&opts.category, "category", "", "Gallery category")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Show at most N items")
	cmd.Flags().IntVar(&maxUpdates, "count", 0, "Exit after N snapshots (0 = until interrupted)")
	return cmd
}

type snapshotWriter struct {
	out     io.Writer
	kind    domain.Kind
	max     int
	printed int
}

// write prints one snapshot; done reports whether --count is reached
func (w *snapshotWriter) write(at time.Time, degraded bool, items interface{}) (done bool) {
	note := ""
	if degraded {
		note = " (store unreachable, showing nothing)"
	}
	fmt.Fprintf(w.out, "%s  %s: %d item(s)%s\n", at.Local().Format("15:04:05"), w.kind, count(items), note)
	if count(items) > 0 {
		fmt.Fprint(w.out, renderSnapshot(items))
	}
	w.printed++
	return w.max > 0 && w.printed >= w.max
}

func watchCollection[T any](cmd *cobra.Command, sub *store.Subscription[T], w *snapshotWriter, view func([]T) interface{}) error {
	defer sub.Cancel()
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case snap, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			if w.write(snap.At, snap.Degraded, view(snap.Items)) {
				return nil
			}
		}
	}
}
