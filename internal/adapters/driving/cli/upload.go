package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

var uploadNoEmbed bool

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload documents",
	Long: `Extracts text from the given files, chunks it and indexes it for
question answering. Supports plain text (.txt, .md) and PDF files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadNoEmbed, "no-embed", false, "skip embedding generation (keyword search only)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	mode := domain.ProcessChunkEmbed
	if uploadNoEmbed {
		mode = domain.ProcessChunkOnly
	}

	var failed int
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			cmd.PrintErrf("Skipping %s: %v\n", path, err)
			failed++
			continue
		}

		filename := filepath.Base(path)
		id, err := documentService.Upload(cmd.Context(), filename, contentTypeFor(path), data, mode)
		if err != nil {
			cmd.PrintErrf("Skipping %s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("Uploaded %s (%s)\n", filename, id)
	}

	if failed == len(args) {
		return fmt.Errorf("no files uploaded")
	}
	return nil
}

// contentTypeFor maps a file path to a MIME type, defaulting to plain
// text for unknown extensions so extensionless notes still work.
func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown", ".txt", "":
		return "text/plain"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/plain"
}
