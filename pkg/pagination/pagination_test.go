package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everlight/aetherius/pkg/protocol"
)

func TestCursorRoundTrip(t *testing.T) {
	for _, offset := range []int{0, 1, 50, 12345} {
		cursor := EncodeCursor(offset)
		decoded, err := DecodeCursor(cursor)
		require.NoError(t, err)
		assert.Equal(t, offset, decoded)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	cases := []string{
		"not-base64!!!",
		"aGVsbG8=", // valid base64, wrong payload
		EncodeCursor(0)[:4],
	}
	for _, cursor := range cases {
		_, err := DecodeCursor(cursor)
		assert.ErrorIs(t, err, ErrInvalidCursor, "cursor %q", cursor)
	}
}

func TestPageNilParamsReturnsEverything(t *testing.T) {
	start, end, result, err := Page(10, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
	assert.Equal(t, 10, result.TotalCount)
	assert.False(t, result.HasMore)
	assert.Empty(t, result.NextCursor)
}

func TestPageZeroLimitReturnsEverything(t *testing.T) {
	start, end, result, err := Page(7, &protocol.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 7, end)
	assert.False(t, result.HasMore)
}

func TestPageFirstPage(t *testing.T) {
	start, end, result, err := Page(10, &protocol.PaginationParams{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
	assert.True(t, result.HasMore)
	assert.NotEmpty(t, result.NextCursor)
	assert.Equal(t, 10, result.TotalCount)
}

func TestPageWalksWholeCollection(t *testing.T) {
	const total = 10
	params := &protocol.PaginationParams{Limit: 4}
	var seen int

	for {
		start, end, result, err := Page(total, params)
		require.NoError(t, err)
		seen += end - start
		if !result.HasMore {
			break
		}
		params.Cursor = result.NextCursor
	}
	assert.Equal(t, total, seen)
}

func TestPageLastPagePartial(t *testing.T) {
	start, end, result, err := Page(5, &protocol.PaginationParams{Limit: 3, Cursor: EncodeCursor(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, start)
	assert.Equal(t, 5, end)
	assert.False(t, result.HasMore)
}

func TestPageCursorBeyondTotal(t *testing.T) {
	start, end, result, err := Page(5, &protocol.PaginationParams{Limit: 3, Cursor: EncodeCursor(50)})
	require.NoError(t, err)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
	assert.False(t, result.HasMore)
}

func TestPageNegativeLimit(t *testing.T) {
	_, _, _, err := Page(5, &protocol.PaginationParams{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestPageLimitCapped(t *testing.T) {
	start, end, _, err := Page(1000, &protocol.PaginationParams{Limit: MaxLimit + 1})
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, MaxLimit, end)
}
