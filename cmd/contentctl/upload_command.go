package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agyouthrise/rise-backend/internal/media"
	"github.com/spf13/cobra"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "upload <image>...",
		Short: "Upload images to the media host and print their public URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			gateway, err := media.NewGateway(cfg.Media)
			if err != nil {
				return err
			}

			results := make([]uploadResult, 0, len(args))
			for _, path := range args {
				url, err := uploadFile(cmd, gateway, path)
				if err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}
				results = append(results, uploadResult{File: path, URL: url})
				if !jsonOut {
					fmt.Fprintln(cmd.OutOrStdout(), url)
				}
			}
			if jsonOut {
				return writeJSON(cmd, results)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of one URL per line")
	return cmd
}

type uploadResult struct {
	File string `json:"file"`
	URL  string `json:"url"`
}

func uploadFile(cmd *cobra.Command, gateway media.Gateway, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return gateway.Upload(cmd.Context(), filepath.Base(path), f)
}
