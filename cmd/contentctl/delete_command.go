package main

import (
	"fmt"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/store"
	"github.com/spf13/cobra"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <blogs|podcasts|gallery> <id>...",
		Short: "Delete documents by id (unknown ids are ignored)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(cmd.Context(), func(client *store.Client) error {
				for _, id := range args[1:] {
					if err := deleteOne(cmd, client, kind, id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", kind, id)
				}
				return nil
			})
		},
	}
}

func deleteOne(cmd *cobra.Command, client *store.Client, kind domain.Kind, id string) error {
	switch kind {
	case domain.KindPosts:
		return client.Posts.Delete(cmd.Context(), id)
	case domain.KindEpisodes:
		return client.Episodes.Delete(cmd.Context(), id)
	default:
		return client.Gallery.Delete(cmd.Context(), id)
	}
}
