package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Initialize, download anything missing, then launch the client",
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

		if engine.State().NeedsDownload() {
			state, err := engine.Download(ctx)
			if err != nil {
				return err
			}
			state.WaitForCompletion()
			if state.IsFailed() {
				return fmt.Errorf("download failed: %v", engine.State().LastError)
			}
		}

		proc, err := engine.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("launched pid=%d\n", proc.Process.Pid)
		return proc.Wait()
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
