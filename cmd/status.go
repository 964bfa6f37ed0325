package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List locally installed and remotely available Minecraft versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(newLogger())
		if err != nil {
			return err
		}
		defer engine.Close()

		versions, err := engine.AvailableVersions(context.Background())
		if err != nil {
			return err
		}

		for _, v := range versions {
			marker := " "
			if v.IsLocal {
				marker = "*"
			}
			fmt.Printf("%s %-24s %s\n", marker, v.ID, v.Type)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
