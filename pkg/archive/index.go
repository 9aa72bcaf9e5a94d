// Package archive implements the document index behind the Aetherius
// Archive server: processing documents into summarized, embedded records,
// similarity search over those records, and the MCP tool/resource/context
// handlers that expose them.
package archive

import (
	"sort"
	"sync"
	"unicode/utf8"

	archerrors "github.com/everlight/aetherius/pkg/errors"
	"github.com/everlight/aetherius/pkg/embedding"
	"github.com/everlight/aetherius/pkg/logging"
)

// DefaultTopK is the number of search results returned when the caller
// does not specify one
const DefaultTopK = 5

// Document is the raw input to the index: an identifier, its content,
// and optional caller-supplied metadata
type Document struct {
	Filename string
	Content  string
	Metadata map[string]interface{}
}

// Record is a processed document. Records are immutable once stored;
// reprocessing a filename replaces the whole record.
type Record struct {
	Filename  string                 `json:"filename"`
	Summary   string                 `json:"summary"`
	WordCount int                    `json:"word_count"`
	CharCount int                    `json:"char_count"`
	Embedding []float64              `json:"embedding,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SearchResult is one entry of a similarity search, ranked by score
type SearchResult struct {
	Filename   string  `json:"filename"`
	Summary    string  `json:"summary"`
	Similarity float64 `json:"similarity"`
}

// Index owns the processed-document store. It is safe for concurrent
// use; writes to a filename are serialized and readers observe either
// the old or the new record, never a partial one.
type Index struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string

	provider      embedding.Provider
	summaryLength int
	logger        logging.Logger
}

// IndexOption configures an Index
type IndexOption func(*Index)

// WithProvider sets the embedding provider. Without one, records carry
// no embeddings and similarity search returns no results.
func WithProvider(provider embedding.Provider) IndexOption {
	return func(idx *Index) {
		idx.provider = provider
	}
}

// WithSummaryLength sets the maximum summary length
func WithSummaryLength(length int) IndexOption {
	return func(idx *Index) {
		if length > 0 {
			idx.summaryLength = length
		}
	}
}

// WithIndexLogger sets the logger used by the index
func WithIndexLogger(logger logging.Logger) IndexOption {
	return func(idx *Index) {
		if logger != nil {
			idx.logger = logger
		}
	}
}

// NewIndex creates an empty document index
func NewIndex(opts ...IndexOption) *Index {
	idx := &Index{
		records:       make(map[string]*Record),
		summaryLength: DefaultSummaryLength,
		logger:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Process derives a record from the document and stores it, replacing
// any prior record for the same filename. Embedding failures degrade to
// a record without an embedding rather than failing the document.
func (idx *Index) Process(doc Document) *Record {
	record := &Record{
		Filename:  doc.Filename,
		Summary:   Summarize(doc.Content, idx.summaryLength),
		WordCount: countWords(doc.Content),
		CharCount: utf8.RuneCountInString(doc.Content),
		Metadata:  doc.Metadata,
	}

	if idx.provider != nil {
		vectors, err := idx.provider.Embed([]string{doc.Content})
		if err != nil || len(vectors) == 0 {
			idx.logger.Warn("embedding failed, storing record without vector",
				logging.String("filename", doc.Filename),
				logging.ErrorField(err),
			)
		} else {
			record.Embedding = vectors[0]
		}
	}

	idx.mu.Lock()
	if _, exists := idx.records[doc.Filename]; !exists {
		idx.order = append(idx.order, doc.Filename)
	}
	idx.records[doc.Filename] = record
	idx.mu.Unlock()

	return record
}

// ProcessBatch processes documents in order; results match input order
func (idx *Index) ProcessBatch(docs []Document) []*Record {
	records := make([]*Record, len(docs))
	for i, doc := range docs {
		records[i] = idx.Process(doc)
	}
	return records
}

// Cached returns the stored record for filename, if any. No recomputation.
func (idx *Index) Cached(filename string) (*Record, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	record, ok := idx.records[filename]
	return record, ok
}

// SearchSimilar embeds the query and ranks stored records by cosine
// similarity, descending, ties broken by insertion order. At most topK
// results are returned; topK of 0 yields an empty list and a negative
// topK is a caller error. With no provider the search returns empty.
func (idx *Index) SearchSimilar(query string, topK int) ([]SearchResult, error) {
	if topK < 0 {
		return nil, archerrors.InvalidParameter("top_k", "must not be negative")
	}
	if idx.provider == nil || topK == 0 {
		return []SearchResult{}, nil
	}

	vectors, err := idx.provider.Embed([]string{query})
	if err != nil {
		return nil, archerrors.Internal("embed query", err)
	}
	if len(vectors) == 0 {
		return []SearchResult{}, nil
	}
	queryVec := vectors[0]

	idx.mu.RLock()
	results := make([]SearchResult, 0, len(idx.order))
	for _, filename := range idx.order {
		record := idx.records[filename]
		if record.Embedding == nil {
			continue
		}
		results = append(results, SearchResult{
			Filename:   record.Filename,
			Summary:    record.Summary,
			Similarity: embedding.CosineSimilarity(queryVec, record.Embedding),
		})
	}
	idx.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Len returns the number of stored records
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Filenames returns stored filenames in insertion order
func (idx *Index) Filenames() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// EmbeddingsEnabled reports whether the index can embed documents
func (idx *Index) EmbeddingsEnabled() bool {
	return idx.provider != nil
}
