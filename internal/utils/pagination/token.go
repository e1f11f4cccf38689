package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// JournalCursor is the position of the last journal of a page in the
// newest-first order (journal date, created at, journal ID).
type JournalCursor struct {
	JournalDate time.Time
	CreatedAt   time.Time
	JournalID   string
}

// After reports whether a journal sorts after the cursor, i.e. belongs on a later page.
func (c JournalCursor) After(journalDate, createdAt time.Time, journalID string) bool {
	if !journalDate.Equal(c.JournalDate) {
		return journalDate.Before(c.JournalDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return journalID < c.JournalID
}

// EncodeToken creates an opaque token from a journal cursor.
// This is used for consistent pagination across the storage drivers.
func EncodeToken(c JournalCursor) string {
	tokenStr := strings.Join([]string{c.JournalDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.JournalID}, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken. Malformed tokens are validation errors.
func DecodeToken(token string) (JournalCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return JournalCursor{}, fmt.Errorf("%w: invalid pagination token format (base64 decode)", apperrors.ErrValidation)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return JournalCursor{}, fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}

	journalDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("%w: invalid pagination token format (journal date parse)", apperrors.ErrValidation)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("%w: invalid pagination token format (created_at parse)", apperrors.ErrValidation)
	}

	return JournalCursor{JournalDate: journalDate, CreatedAt: createdAt, JournalID: parts[2]}, nil
}
