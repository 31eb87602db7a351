package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"easyrent/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	cursorVersion    = "v1"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// Cursor points after the last row of a page ordered by (created_at DESC, id DESC).
type Cursor struct {
	After string `json:"after,omitempty"`
}

// Microsecond precision matches timestamptz
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	raw := fmt.Sprintf("%s:%d:%s", cursorVersion, t.UnixMicro(), id.String())
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(err, ErrInvalidCursor)
	}

	parts := strings.SplitN(string(decoded), ":", 3)
	if len(parts) != 3 || parts[0] != cursorVersion {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}
	micros, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(err, ErrInvalidCursor)
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(err, ErrInvalidCursor)
	}
	return time.UnixMicro(micros).UTC(), id, nil
}

func ValidateLimit(limit, max int) int {
	if limit <= 0 {
		return min(DefaultListLimit, max)
	}
	if limit > max {
		return max
	}
	return limit
}
