package archive

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everlight/aetherius/pkg/embedding"
	"github.com/everlight/aetherius/pkg/protocol"
	"github.com/everlight/aetherius/pkg/server"
)

func newTestHandlers(t *testing.T) (*Handlers, string) {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "chronicle.md", "The chronicle of the archive. It records every era in order.")
	writeDoc(t, dir, "starlog.txt", "Observations of the night sky, noted by the keepers.")

	provider, err := embedding.NewHashProvider(64)
	require.NoError(t, err)
	idx := NewIndex(WithProvider(provider))
	return NewHandlers(dir, idx, nil), dir
}

func newRegisteredServer(t *testing.T) (*server.Server, *Handlers) {
	t.Helper()
	h, _ := newTestHandlers(t)
	srv := server.New(server.WithName("test-archive"))
	require.NoError(t, h.Register(srv))
	return srv, h
}

func TestListDocuments(t *testing.T) {
	h, dir := newTestHandlers(t)

	result, err := h.ListDocuments(context.Background(), nil)
	require.NoError(t, err)

	docs := result.([]map[string]string)
	require.Len(t, docs, 2)
	assert.Equal(t, "chronicle.md", docs[0]["filename"])
	assert.Contains(t, docs[0]["path"], dir)
	assert.Equal(t, "starlog.txt", docs[1]["filename"])
}

func TestGetDocument(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.GetDocument(context.Background(), map[string]interface{}{"filename": "chronicle.md"})
	require.NoError(t, err)

	record := result.(*Record)
	assert.Equal(t, "chronicle.md", record.Filename)
	assert.NotEmpty(t, record.Summary)
	assert.NotEmpty(t, record.Embedding)

	_, cached := h.index.Cached("chronicle.md")
	assert.True(t, cached)
}

func TestGetDocumentMissingReturnsErrorPayload(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.GetDocument(context.Background(), map[string]interface{}{"filename": "ghost.txt"})
	require.NoError(t, err, "a missing document is an expected outcome, not a handler failure")

	payload := result.(map[string]interface{})
	assert.Contains(t, payload["error"], "ghost.txt")
}

func TestGetDocumentMissingParameter(t *testing.T) {
	h, _ := newTestHandlers(t)
	_, err := h.GetDocument(context.Background(), map[string]interface{}{})
	assert.Error(t, err)
}

func TestGetDocumentRejectsPathTraversal(t *testing.T) {
	h, _ := newTestHandlers(t)
	_, err := h.GetDocument(context.Background(), map[string]interface{}{
		"filename": "../../etc/passwd",
	})
	assert.Error(t, err)
}

func TestSearchDocuments(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.SearchDocuments(context.Background(), map[string]interface{}{
		"query": "The chronicle of the archive. It records every era in order.",
		"top_k": float64(1),
	})
	require.NoError(t, err)

	results := result.([]SearchResult)
	require.Len(t, results, 1)
	assert.Equal(t, "chronicle.md", results[0].Filename)
}

func TestSearchDocumentsIndexesUnprocessedFiles(t *testing.T) {
	h, dir := newTestHandlers(t)
	writeDoc(t, dir, "late.txt", "a document added after startup")

	_, err := h.SearchDocuments(context.Background(), map[string]interface{}{"query": "anything"})
	require.NoError(t, err)

	_, cached := h.index.Cached("late.txt")
	assert.True(t, cached)
}

func TestSearchDocumentsWithoutEmbeddings(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "doc.txt", "content")
	h := NewHandlers(dir, NewIndex(), nil)

	result, err := h.SearchDocuments(context.Background(), map[string]interface{}{"query": "anything"})
	require.NoError(t, err)

	payload := result.(map[string]interface{})
	assert.NotEmpty(t, payload["error"])
}

func TestSummarizeDocument(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.SummarizeDocument(context.Background(), map[string]interface{}{"filename": "starlog.txt"})
	require.NoError(t, err)

	payload := result.(map[string]interface{})
	assert.Equal(t, "starlog.txt", payload["filename"])
	assert.NotEmpty(t, payload["summary"])
	assert.Equal(t, 9, payload["word_count"])
}

func TestArchiveIndexResource(t *testing.T) {
	h, _ := newTestHandlers(t)

	content, err := h.ArchiveIndex(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "chronicle.md")
	assert.Contains(t, content, "starlog.txt")
	assert.Contains(t, content, "Total documents: 2")
}

func TestDocumentResourceReadsFreshContent(t *testing.T) {
	h, dir := newTestHandlers(t)
	read := h.DocumentResource("starlog.txt")

	first, err := read(context.Background())
	require.NoError(t, err)
	assert.Contains(t, first, "night sky")

	writeDoc(t, dir, "starlog.txt", "rewritten observations")
	second, err := read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rewritten observations", second)
}

func TestContextReportsArchiveState(t *testing.T) {
	h, dir := newTestHandlers(t)
	h.index.Process(Document{Filename: "chronicle.md", Content: "indexed"})

	ctx, err := h.Context(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "EverLight Aetherius Archive", ctx["archive_name"])
	assert.Equal(t, 2, ctx["document_count"])
	assert.Equal(t, dir, ctx["documents_directory"])
	assert.Equal(t, []string{".html", ".md", ".txt"}, ctx["available_extensions"])
	assert.Equal(t, 1, ctx["indexed_documents"])
	assert.Equal(t, true, ctx["embeddings_enabled"])
	assert.Equal(t, "operational", ctx["status"])
}

func TestRegisterExposesToolsAndResources(t *testing.T) {
	srv, _ := newRegisteredServer(t)

	req, err := protocol.NewRequest(1, protocol.MethodListTools, nil)
	require.NoError(t, err)
	resp := srv.HandleRequest(context.Background(), req)
	require.Nil(t, resp.Error)

	var tools protocol.ListToolsResult
	require.NoError(t, json.Unmarshal(resp.Result, &tools))
	names := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{"list_documents", "get_document", "search_documents", "summarize_document"}, names)

	req, err = protocol.NewRequest(2, protocol.MethodListResources, nil)
	require.NoError(t, err)
	resp = srv.HandleRequest(context.Background(), req)
	require.Nil(t, resp.Error)

	var resources protocol.ListResourcesResult
	require.NoError(t, json.Unmarshal(resp.Result, &resources))
	uris := make([]string, len(resources.Resources))
	for i, res := range resources.Resources {
		uris[i] = res.URI
	}
	assert.Equal(t, []string{
		"archive://index",
		"archive://documents/chronicle.md",
		"archive://documents/starlog.txt",
	}, uris)
}

func TestEndToEndToolCall(t *testing.T) {
	srv, _ := newRegisteredServer(t)

	req, err := protocol.NewRequest(3, protocol.MethodCallTool, protocol.CallToolParams{
		Name:      "summarize_document",
		Arguments: map[string]interface{}{"filename": "chronicle.md"},
	})
	require.NoError(t, err)

	resp := srv.HandleRequest(context.Background(), req)
	require.Nil(t, resp.Error)

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.Equal(t, "chronicle.md", payload["filename"])
	assert.NotEmpty(t, payload["summary"])
}

func TestEndToEndMissingArgumentIsInternalError(t *testing.T) {
	srv, _ := newRegisteredServer(t)

	req, err := protocol.NewRequest(5, protocol.MethodCallTool, protocol.CallToolParams{
		Name:      "get_document",
		Arguments: map[string]interface{}{},
	})
	require.NoError(t, err)

	resp := srv.HandleRequest(context.Background(), req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InternalError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "filename")
}

func TestEndToEndContextGet(t *testing.T) {
	srv, _ := newRegisteredServer(t)

	req, err := protocol.NewRequest(4, protocol.MethodGetContext, nil)
	require.NoError(t, err)
	resp := srv.HandleRequest(context.Background(), req)
	require.Nil(t, resp.Error)

	var merged map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Result, &merged))
	assert.Equal(t, "operational", merged["status"])
	assert.Equal(t, float64(2), merged["document_count"])
}
