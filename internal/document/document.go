package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalid reports that a document failed construction-time validation.
var ErrInvalid = errors.New("invalid document")

// Document is one retrievable unit of knowledge. The Store owns the
// canonical copy; mutation must go through Store.Update to be durable.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New constructs a validated document with a fresh ID and timestamps.
// Title and content must be non-empty after trimming; source may be empty.
func New(title, content, source string) (Document, error) {
	if strings.TrimSpace(title) == "" {
		return Document{}, fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	}
	if strings.TrimSpace(content) == "" {
		return Document{}, fmt.Errorf("%w: content cannot be empty", ErrInvalid)
	}

	now := time.Now().UTC()
	return Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateContent replaces the document content and refreshes the
// updated-at timestamp. The new content must be non-empty after trimming.
func (d *Document) UpdateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrInvalid)
	}
	d.Content = content
	d.UpdatedAt = time.Now().UTC()
	return nil
}
