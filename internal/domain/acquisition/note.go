package acquisition

import (
	"time"

	"github.com/google/uuid"
)

// NoteType classifies a note on an order or order line
type NoteType string

const (
	NoteTypeStaff   NoteType = "staff_note"
	NoteTypeVendor  NoteType = "vendor_note"
	NoteTypeReceipt NoteType = "receipt_note"
)

// IsValid checks if the note type is known
func (t NoteType) IsValid() bool {
	switch t {
	case NoteTypeStaff, NoteTypeVendor, NoteTypeReceipt:
		return true
	}
	return false
}

// Note is a typed free-text annotation. The owning order or order line allows
// at most one note per type.
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ParentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      NoteType  `gorm:"type:varchar(20);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Note) TableName() string {
	return "acq_notes"
}

// NewNote creates a note attached to the given parent record
func NewNote(parentID uuid.UUID, noteType NoteType, content string) Note {
	return Note{
		ID:        uuid.New(),
		ParentID:  parentID,
		Type:      noteType,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
