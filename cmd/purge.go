package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yuuchan-san/soundcloud-downloader/application/cleanup"
	"github.com/yuuchan-san/soundcloud-downloader/infrastructure/storage"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every staged file in the storage root",
	Long: `Unconditionally delete all files under the configured storage root,
regardless of age. Equivalent to the DELETE /cleanup endpoint.`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	store := storage.NewDirectory(cfg.Storage.Root)
	cleaner := cleanup.NewService(store, slog.Default())

	result, err := cleaner.PurgeAll()
	if err != nil {
		return err
	}

	fmt.Printf("%d files deleted\n", result.Count())
	for _, failure := range result.Failures {
		fmt.Printf("failed to delete %s: %v\n", failure.Name, failure.Err)
	}
	return nil
}
