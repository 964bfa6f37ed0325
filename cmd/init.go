package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Resolve the version descriptor and diagnose missing files",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(newLogger())
		if err != nil {
			return err
		}
		defer engine.Close()

		if err := engine.Initialize(context.Background()); err != nil {
			return err
		}

		snap := engine.State()
		fmt.Println(snap.StatusMessage)
		fmt.Printf("can_launch=%v missing_files=%d missing_libraries=%d missing_assets=%d\n",
			snap.CanLaunch, len(snap.MissingFiles), len(snap.MissingLibraries), len(snap.MissingAssets))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
