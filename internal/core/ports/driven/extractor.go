package driven

import "context"

// Extractor converts raw uploaded bytes into plain text.
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract returns the text content of the raw data.
	// Returns domain.ErrEmptyContent when no text can be recovered.
	Extract(ctx context.Context, data []byte) (string, error)
}

// CommandRunner executes an external command and returns its stdout.
// Extracted as an interface so adapters that shell out (pdftotext)
// can be tested without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
