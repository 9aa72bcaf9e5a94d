package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	archerrors "github.com/everlight/aetherius/pkg/errors"
	"github.com/everlight/aetherius/pkg/logging"
	"github.com/everlight/aetherius/pkg/server"
)

// Tool parameter schemas. The dispatcher treats these as opaque
// documentation; the handlers validate what they actually need.
var (
	listDocumentsSchema = json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)

	getDocumentSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"filename": {"type": "string", "description": "Name of the document to retrieve"}
		},
		"required": ["filename"]
	}`)

	searchDocumentsSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Search query text"},
			"top_k": {"type": "integer", "description": "Number of results to return", "default": 5}
		},
		"required": ["query"]
	}`)

	summarizeDocumentSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"filename": {"type": "string", "description": "Name of the document to summarize"}
		},
		"required": ["filename"]
	}`)
)

// Handlers exposes the document index over MCP: tools for listing,
// retrieving, searching, and summarizing documents, resources for raw
// document content, and a context callback reporting archive state.
//
// Expected outcomes of valid requests, like asking for a document that
// does not exist, are reported inside the result payload as an "error"
// entry rather than as protocol-level failures.
type Handlers struct {
	dir    string
	index  *Index
	logger logging.Logger
}

// NewHandlers creates handlers serving documents from dir through index
func NewHandlers(dir string, index *Index, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handlers{dir: dir, index: index, logger: logger}
}

// Register wires every archive tool, resource, and context callback
// into the server.
func (h *Handlers) Register(srv *server.Server) error {
	srv.RegisterTool("list_documents", "List all documents in the archive",
		listDocumentsSchema, h.ListDocuments)
	srv.RegisterTool("get_document", "Get a specific document by filename",
		getDocumentSchema, h.GetDocument)
	srv.RegisterTool("search_documents", "Search for documents similar to a query",
		searchDocumentsSchema, h.SearchDocuments)
	srv.RegisterTool("summarize_document", "Generate a summary of a document",
		summarizeDocumentSchema, h.SummarizeDocument)

	srv.RegisterResource("archive://index", "Archive Index",
		"Index of all archive documents", h.ArchiveIndex)

	paths, err := ScanDir(h.dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		h.registerDocumentResource(srv, filepath.Base(path))
	}

	srv.RegisterContextHandler(h.Context)
	return nil
}

func (h *Handlers) registerDocumentResource(srv *server.Server, filename string) {
	srv.RegisterResource(
		DocumentURI(filename),
		filename,
		fmt.Sprintf("Archive document %s", filename),
		h.DocumentResource(filename),
	)
}

// DocumentURI returns the resource URI for a document filename
func DocumentURI(filename string) string {
	return "archive://documents/" + filename
}

// ListDocuments returns the filename and path of every document on disk
func (h *Handlers) ListDocuments(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	paths, err := ScanDir(h.dir)
	if err != nil {
		return nil, err
	}

	documents := make([]map[string]string, 0, len(paths))
	for _, path := range paths {
		documents = append(documents, map[string]string{
			"filename": filepath.Base(path),
			"path":     path,
		})
	}
	return documents, nil
}

// GetDocument reads and processes one document, returning its record
func (h *Handlers) GetDocument(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	filename, err := stringArg(args, "filename")
	if err != nil {
		return nil, err
	}

	record, err := h.loadAndProcess(filename)
	if err != nil {
		if archerrors.IsCategory(err, archerrors.CategoryData) {
			return errorPayload(err), nil
		}
		return nil, err
	}
	return record, nil
}

// SearchDocuments processes any unindexed documents and ranks the
// archive against the query
func (h *Handlers) SearchDocuments(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}

	topK := DefaultTopK
	if raw, ok := args["top_k"]; ok {
		n, ok := raw.(float64)
		if !ok {
			return nil, archerrors.InvalidParameter("top_k", "must be a number")
		}
		topK = int(n)
	}

	if !h.index.EmbeddingsEnabled() {
		return errorPayload(archerrors.EmbeddingsUnavailable()), nil
	}

	// Make sure everything on disk is indexed before ranking
	docs, err := LoadDocuments(h.dir)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if _, cached := h.index.Cached(doc.Filename); !cached {
			h.index.Process(doc)
		}
	}

	results, err := h.index.SearchSimilar(query, topK)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SummarizeDocument returns the summary and word count of one document
func (h *Handlers) SummarizeDocument(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	filename, err := stringArg(args, "filename")
	if err != nil {
		return nil, err
	}

	record, err := h.loadAndProcess(filename)
	if err != nil {
		if archerrors.IsCategory(err, archerrors.CategoryData) {
			return errorPayload(err), nil
		}
		return nil, err
	}

	return map[string]interface{}{
		"filename":   record.Filename,
		"summary":    record.Summary,
		"word_count": record.WordCount,
	}, nil
}

// ArchiveIndex renders a human-readable index of the archive
func (h *Handlers) ArchiveIndex(ctx context.Context) (string, error) {
	paths, err := ScanDir(h.dir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Aetherius Archive Index\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%s (%d bytes)\n", filepath.Base(path), info.Size())
	}

	fmt.Fprintf(&b, "\nTotal documents: %d\n", len(paths))
	return b.String(), nil
}

// DocumentResource returns a resource handler serving the raw content
// of one document. Content is read on every call so edits on disk are
// visible without reprocessing.
func (h *Handlers) DocumentResource(filename string) server.ResourceHandler {
	return func(ctx context.Context) (string, error) {
		content, err := h.readDocument(filename)
		if err != nil {
			return "", err
		}
		return content, nil
	}
}

// Context reports archive state to context/get clients
func (h *Handlers) Context(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	paths, err := ScanDir(h.dir)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"archive_name":         "EverLight Aetherius Archive",
		"document_count":       len(paths),
		"documents_directory":  h.dir,
		"available_extensions": SupportedExtensions(),
		"indexed_documents":    h.index.Len(),
		"embeddings_enabled":   h.index.EmbeddingsEnabled(),
		"status":               "operational",
	}, nil
}

func (h *Handlers) loadAndProcess(filename string) (*Record, error) {
	content, err := h.readDocument(filename)
	if err != nil {
		return nil, err
	}
	return h.index.Process(Document{Filename: filename, Content: content}), nil
}

func (h *Handlers) readDocument(filename string) (string, error) {
	// Names arrive from clients; keep reads inside the archive directory
	if filepath.Base(filename) != filename || filename == "." || filename == ".." {
		return "", archerrors.InvalidParameter("filename", "must be a bare filename")
	}

	path := filepath.Join(h.dir, filename)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", archerrors.DocumentNotFound(filename)
		}
		return "", archerrors.Internal("read document", err)
	}
	return string(content), nil
}

func stringArg(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", archerrors.MissingParameter(name)
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", archerrors.InvalidParameter(name, "must be a non-empty string")
	}
	return value, nil
}

func errorPayload(err error) map[string]interface{} {
	return map[string]interface{}{"error": err.Error()}
}
