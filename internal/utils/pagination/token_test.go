package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := JournalCursor{
		JournalDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC),
		JournalID:   "0b6f4c1e-5d1a-4f57-9c35-0a8f0e7c2b11",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.JournalDate.Equal(decoded.JournalDate), "Journal date should match after decode")
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt), "Created at time should match after decode")
	assert.Equal(t, cursor.JournalID, decoded.JournalID)
}

func TestDecodeTokenError(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"invalid base64", "this is not base64!", "base64 decode"},
		{"missing separators", base64.URLEncoding.EncodeToString([]byte("2024-03-15T00:00:00Z")), "split"},
		{"empty id", base64.URLEncoding.EncodeToString([]byte("2024-03-15T00:00:00Z|2024-03-15T00:00:00Z|")), "split"},
		{"bad journal date", base64.URLEncoding.EncodeToString([]byte("notadate|2024-03-15T00:00:00Z|x")), "journal date parse"},
		{"bad created at", base64.URLEncoding.EncodeToString([]byte("2024-03-15T00:00:00Z|notatime|x")), "created_at parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestJournalCursorAfter(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	c := JournalCursor{JournalDate: day, CreatedAt: at, JournalID: "m"}

	assert.True(t, c.After(day.AddDate(0, 0, -1), at, "z"), "earlier date comes later in newest-first order")
	assert.False(t, c.After(day.AddDate(0, 0, 1), at, "a"))
	assert.True(t, c.After(day, at.Add(-time.Second), "z"))
	assert.True(t, c.After(day, at, "a"))
	assert.False(t, c.After(day, at, "m"), "the cursor row itself is not repeated")
	assert.False(t, c.After(day, at, "z"))
}
