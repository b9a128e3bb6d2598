package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs/internal/adapters/driven/storage/memory"
	vectormem "github.com/custodia-labs/askdocs/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/askdocs/internal/chunker"
	"github.com/custodia-labs/askdocs/internal/config"
	"github.com/custodia-labs/askdocs/internal/core/services"
	"github.com/custodia-labs/askdocs/internal/extract/plaintext"
)

// setupTestServices wires real in-memory services without providers,
// so commands run on the lexical path.
func setupTestServices() func() {
	store := memory.NewDocumentStore()
	index := vectormem.NewIndex()
	split := chunker.New()

	docService := services.NewDocumentService(store, index, nil, split, plaintext.New())
	SetServices(docService, services.NewQAService(store, index, nil, nil))

	return func() {
		SetServices(nil, nil)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "askdocs version")
}

func TestUploadCmd_RequiresArg(t *testing.T) {
	_, err := execute(t, "upload")
	assert.Error(t, err)
}

func TestUploadCmd_UploadsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("The capital of France is Paris."), 0644))

	out, err := execute(t, "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded notes.txt")
}

func TestUploadCmd_AllFilesFail(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "upload", "/non/existent/file.txt")
	assert.Error(t, err)
}

func TestUploadCmd_NoService(t *testing.T) {
	_, err := execute(t, "upload", "whatever.txt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDocumentsCmd_ListEmpty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded.")
}

func TestDocumentsCmd_ListShowDelete(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("Some document content here."), 0644))
	_, err := execute(t, "upload", path)
	require.NoError(t, err)

	docs, err := documentService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	id := docs[0].ID

	out, err := execute(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "doc.txt")
	assert.Contains(t, out, "Total: 1 documents")

	out, err = execute(t, "documents", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Some document content here.")

	out, err = execute(t, "documents", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, err = execute(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded.")
}

func TestDocumentsCmd_ShowUnknown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "documents", "show", "missing-id")
	assert.Error(t, err)
}

func TestAskCmd_AnswersFromDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "facts.txt")
	require.NoError(t, os.WriteFile(path, []byte("The capital of France is Paris."), 0644))
	_, err := execute(t, "upload", path)
	require.NoError(t, err)

	out, err := execute(t, "ask", "capital of France")
	require.NoError(t, err)
	assert.Contains(t, out, "capital of France")
	assert.Contains(t, out, "Confidence:")
	assert.Contains(t, out, "facts.txt")
}

func TestAskCmd_NoDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents")
}

func TestAskCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "--json", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, `"text"`)
	assert.Contains(t, out, `"confidence"`)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/plain", contentTypeFor("notes.txt"))
	assert.Equal(t, "text/plain", contentTypeFor("README.md"))
	assert.Equal(t, "text/plain", contentTypeFor("LICENSE"))
	assert.Equal(t, "application/pdf", contentTypeFor("paper.pdf"))
}

func TestInitialize_UnknownProviders(t *testing.T) {
	cfg := config.Default()
	cfg.Embedding.Provider = "bogus"
	assert.Error(t, Initialize(cfg))

	cfg = config.Default()
	cfg.LLM.Provider = "bogus"
	assert.Error(t, Initialize(cfg))
}

func TestInitialize_NoneProviders(t *testing.T) {
	defer SetServices(nil, nil)

	require.NoError(t, Initialize(config.Default()))
	assert.NotNil(t, documentService)
	assert.NotNil(t, qaService)
}
