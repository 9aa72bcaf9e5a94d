package archive

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everlight/aetherius/pkg/embedding"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	provider, err := embedding.NewHashProvider(64)
	require.NoError(t, err)
	return NewIndex(WithProvider(provider))
}

func TestProcessStoresRecord(t *testing.T) {
	idx := newTestIndex(t)

	record := idx.Process(Document{
		Filename: "guide.md",
		Content:  "A guide to the archive. It explains everything.",
		Metadata: map[string]interface{}{"source": "test"},
	})

	assert.Equal(t, "guide.md", record.Filename)
	assert.Equal(t, 8, record.WordCount)
	assert.Equal(t, 47, record.CharCount)
	assert.NotEmpty(t, record.Summary)
	assert.Len(t, record.Embedding, 64)
	assert.Equal(t, "test", record.Metadata["source"])

	cached, ok := idx.Cached("guide.md")
	require.True(t, ok)
	assert.Equal(t, record, cached)
}

func TestProcessCountsMultibyteCharacters(t *testing.T) {
	idx := NewIndex()

	record := idx.Process(Document{
		Filename: "lore.md",
		Content:  "Crème brûlée",
	})

	assert.Equal(t, 2, record.WordCount)
	assert.Equal(t, 12, record.CharCount)
}

func TestProcessWithoutProvider(t *testing.T) {
	idx := NewIndex()
	record := idx.Process(Document{Filename: "a.txt", Content: "no embeddings here"})
	assert.Nil(t, record.Embedding)
	assert.False(t, idx.EmbeddingsEnabled())
}

func TestReprocessReplacesRecord(t *testing.T) {
	idx := newTestIndex(t)

	idx.Process(Document{Filename: "a.txt", Content: "original content", Metadata: map[string]interface{}{"v": 1}})
	idx.Process(Document{Filename: "a.txt", Content: "replacement content"})

	cached, ok := idx.Cached("a.txt")
	require.True(t, ok)
	assert.Equal(t, "replacement content", cached.Summary)
	assert.Nil(t, cached.Metadata, "metadata must be replaced, not merged")
	assert.Equal(t, 1, idx.Len())
}

func TestCachedAbsent(t *testing.T) {
	idx := newTestIndex(t)
	_, ok := idx.Cached("never-processed.txt")
	assert.False(t, ok)
}

func TestProcessBatchPreservesOrder(t *testing.T) {
	idx := newTestIndex(t)

	docs := []Document{
		{Filename: "one.txt", Content: "first"},
		{Filename: "two.txt", Content: "second"},
		{Filename: "three.txt", Content: "third"},
	}
	records := idx.ProcessBatch(docs)

	require.Len(t, records, 3)
	for i, doc := range docs {
		assert.Equal(t, doc.Filename, records[i].Filename)
	}
	assert.Equal(t, []string{"one.txt", "two.txt", "three.txt"}, idx.Filenames())
}

func TestSearchSimilarRanksExactMatchFirst(t *testing.T) {
	idx := newTestIndex(t)
	idx.ProcessBatch([]Document{
		{Filename: "apples.txt", Content: "a treatise on apples and orchards"},
		{Filename: "ships.txt", Content: "naval architecture of the old fleet"},
		{Filename: "stars.txt", Content: "catalog of visible stars and constellations"},
	})

	// Identical text embeds to an identical vector, so the exact match
	// must rank first with similarity ~1
	results, err := idx.SearchSimilar("a treatise on apples and orchards", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "apples.txt", results[0].Filename)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
}

func TestSearchSimilarSortedDescending(t *testing.T) {
	idx := newTestIndex(t)
	for i := 0; i < 10; i++ {
		idx.Process(Document{
			Filename: fmt.Sprintf("doc-%d.txt", i),
			Content:  strings.Repeat(fmt.Sprintf("topic %d ", i), 5),
		})
	}

	results, err := idx.SearchSimilar("topic", 10)
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestSearchSimilarTiesKeepInsertionOrder(t *testing.T) {
	idx := newTestIndex(t)
	// Identical content embeds identically, so these three tie exactly
	idx.ProcessBatch([]Document{
		{Filename: "b.txt", Content: "identical content"},
		{Filename: "a.txt", Content: "identical content"},
		{Filename: "c.txt", Content: "identical content"},
	})

	results, err := idx.SearchSimilar("something else entirely", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "b.txt", results[0].Filename)
	assert.Equal(t, "a.txt", results[1].Filename)
	assert.Equal(t, "c.txt", results[2].Filename)
}

func TestSearchSimilarTopKLimitsResults(t *testing.T) {
	idx := newTestIndex(t)
	for i := 0; i < 10; i++ {
		idx.Process(Document{Filename: fmt.Sprintf("doc-%d.txt", i), Content: "content"})
	}

	results, err := idx.SearchSimilar("query", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchSimilarTopKZero(t *testing.T) {
	idx := newTestIndex(t)
	idx.Process(Document{Filename: "a.txt", Content: "content"})

	results, err := idx.SearchSimilar("query", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSimilarNegativeTopK(t *testing.T) {
	idx := newTestIndex(t)
	_, err := idx.SearchSimilar("query", -1)
	assert.Error(t, err)
}

func TestSearchSimilarWithoutProvider(t *testing.T) {
	idx := NewIndex()
	idx.Process(Document{Filename: "a.txt", Content: "content"})

	results, err := idx.SearchSimilar("query", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSimilarEmptyIndex(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.SearchSimilar("query", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSimilarSkipsVectorlessRecords(t *testing.T) {
	provider, err := embedding.NewHashProvider(64)
	require.NoError(t, err)

	// One record written before the provider was attached carries no vector
	idx := NewIndex()
	idx.Process(Document{Filename: "old.txt", Content: "indexed without embeddings"})

	withProvider := NewIndex(WithProvider(provider))
	withProvider.Process(Document{Filename: "new.txt", Content: "indexed with embeddings"})
	if old, ok := idx.Cached("old.txt"); ok {
		withProvider.mu.Lock()
		withProvider.records["old.txt"] = old
		withProvider.order = append(withProvider.order, "old.txt")
		withProvider.mu.Unlock()
	}

	results, err := withProvider.SearchSimilar("query", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new.txt", results[0].Filename)
}

func TestIndexConcurrentAccess(t *testing.T) {
	idx := newTestIndex(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				idx.Process(Document{
					Filename: fmt.Sprintf("doc-%d.txt", n%4),
					Content:  fmt.Sprintf("revision %d from worker %d", j, n),
				})
				idx.Cached(fmt.Sprintf("doc-%d.txt", n%4))
				_, err := idx.SearchSimilar("revision", 3)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, idx.Len())
}
