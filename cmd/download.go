package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sammwy/mcbootstrap-go/internal/bootstrap"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Initialize, then download everything missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(newLogger())
		if err != nil {
			return err
		}
		defer engine.Close()

		ctx := context.Background()
		if err := engine.Initialize(ctx); err != nil {
			return err
		}

		if !engine.State().NeedsDownload() {
			fmt.Println("nothing to download")
			return nil
		}

		state, err := engine.Download(ctx)
		if err != nil {
			return err
		}

		state.OnProgress(func(d *bootstrap.DownloadState) {
			fmt.Printf("\r%s  %s", d.FormattedProgress(), d.FormattedBytesProgress())
		})

		state.WaitForCompletion()
		fmt.Println()

		if state.IsFailed() {
			return fmt.Errorf("download failed: %v", engine.State().LastError)
		}
		for _, af := range state.ArtifactFailures() {
			fmt.Printf("warning: %v\n", af)
		}
		fmt.Println("download complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
