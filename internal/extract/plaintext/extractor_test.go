package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	assert.Contains(t, e.SupportedMIMETypes(), "text/plain")
}

func TestExtract_ValidText(t *testing.T) {
	e := New()

	text, err := e.Extract(context.Background(), []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_EmptyContent(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), []byte("  \n\t "))
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}
