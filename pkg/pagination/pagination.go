// Package pagination implements opaque-cursor pagination for the list
// methods of the archive server. Cursors encode an offset into the
// listed collection; clients must treat them as opaque tokens.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/everlight/aetherius/pkg/protocol"
)

const (
	// DefaultLimit is the page size used when a cursor is supplied
	// without an explicit limit
	DefaultLimit = 50

	// MaxLimit is the maximum allowed page size
	MaxLimit = 200

	cursorPrefix = "offset:"
)

var (
	// ErrInvalidLimit is returned when the pagination limit is negative
	ErrInvalidLimit = errors.New("pagination limit must not be negative")

	// ErrInvalidCursor is returned when a pagination cursor cannot be decoded
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)

// EncodeCursor encodes an offset as an opaque cursor token
func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor decodes a cursor token back to an offset
func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCursor, cursor)
	}

	payload, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCursor, cursor)
	}

	offset, err := strconv.Atoi(payload)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCursor, cursor)
	}
	return offset, nil
}

// Page computes the half-open window [start, end) of a collection with
// total items for the given parameters, plus the result metadata. Nil
// params, or a zero limit without a cursor, selects the whole
// collection; limits above MaxLimit are capped.
func Page(total int, params *protocol.PaginationParams) (start, end int, result protocol.PaginationResult, err error) {
	result.TotalCount = total

	if params == nil || (params.Limit == 0 && params.Cursor == "") {
		return 0, total, result, nil
	}

	if params.Limit < 0 {
		return 0, 0, protocol.PaginationResult{}, fmt.Errorf("%w: got %d", ErrInvalidLimit, params.Limit)
	}

	limit := params.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if params.Cursor != "" {
		start, err = DecodeCursor(params.Cursor)
		if err != nil {
			return 0, 0, protocol.PaginationResult{}, err
		}
		if start > total {
			start = total
		}
	}

	end = start + limit
	if end > total {
		end = total
	}

	if end < total {
		result.HasMore = true
		result.NextCursor = EncodeCursor(end)
	}
	return start, end, result, nil
}
