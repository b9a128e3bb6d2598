package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs/internal/core/domain"
	"github.com/custodia-labs/askdocs/internal/logger"
	"github.com/custodia-labs/askdocs/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest documents automatically",
	Long: `Watches a directory for new, changed and removed files. Created and
modified files are uploaded; removed files are deleted from the index.
Runs until interrupted. With no argument, uses the configured watch
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	dir := appConfig.Watch.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory given and no watch.dir configured")
	}

	w := watcher.New(dir, appConfig.Watch.Extensions)
	defer w.Close()

	changes, err := w.Watch(cmd.Context())
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", dir)

	// Maps watched paths to document IDs so edits replace instead of
	// duplicate, and removals can reach the store.
	ingested := make(map[string]string)

	for change := range changes {
		switch change.Type {
		case watcher.ChangeCreated, watcher.ChangeUpdated:
			if id, ok := ingested[change.Path]; ok {
				if err := documentService.Delete(cmd.Context(), id); err != nil {
					logger.Warn("replace %s: %v", change.Path, err)
				}
				delete(ingested, change.Path)
			}
			id, err := ingestFile(cmd, change.Path)
			if err != nil {
				cmd.PrintErrf("Skipping %s: %v\n", change.Path, err)
				continue
			}
			ingested[change.Path] = id
		case watcher.ChangeRemoved:
			id, ok := ingested[change.Path]
			if !ok {
				continue
			}
			delete(ingested, change.Path)
			if err := documentService.Delete(cmd.Context(), id); err != nil {
				cmd.PrintErrf("Failed to remove %s: %v\n", change.Path, err)
				continue
			}
			cmd.Printf("Removed %s\n", filepath.Base(change.Path))
		}
	}
	return nil
}

func ingestFile(cmd *cobra.Command, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	filename := filepath.Base(path)
	id, err := documentService.Upload(cmd.Context(), filename, contentTypeFor(path), data, domain.ProcessChunkEmbed)
	if err != nil {
		return "", err
	}
	cmd.Printf("Ingested %s (%s)\n", filename, id)
	return id, nil
}
