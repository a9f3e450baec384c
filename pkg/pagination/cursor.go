// Package pagination implements keyset (cursor) paging over results ordered
// by (created_at DESC, id DESC).
package pagination

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const cursorSeparator = "_"

// Cursor is the last-seen sort key of a page. The wire form is
// "<epochMillis>_<id>".
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// NewCursor builds a cursor truncated to the millisecond precision the wire
// form can carry.
func NewCursor(createdAt time.Time, id int64) Cursor {
	return Cursor{CreatedAt: time.UnixMilli(createdAt.UnixMilli()).UTC(), ID: id}
}

// String encodes the cursor in its wire form.
func (c Cursor) String() string {
	return fmt.Sprintf("%d%s%d", c.CreatedAt.UnixMilli(), cursorSeparator, c.ID)
}

// Parse decodes a wire cursor. Empty or malformed input yields ok=false and
// callers treat it as "no cursor", restarting at the first page.
func Parse(raw string) (Cursor, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Cursor{}, false
	}
	parts := strings.Split(raw, cursorSeparator)
	if len(parts) != 2 {
		return Cursor{}, false
	}
	millis, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, false
	}
	return Cursor{CreatedAt: time.UnixMilli(millis).UTC(), ID: id}, true
}

// After reports whether c sorts strictly after other in descending
// (created_at, id) order, i.e. whether c belongs on a later page.
func (c Cursor) After(other Cursor) bool {
	if !c.CreatedAt.Equal(other.CreatedAt) {
		return c.CreatedAt.Before(other.CreatedAt)
	}
	return c.ID < other.ID
}
