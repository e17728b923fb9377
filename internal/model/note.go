package model

import "strings"

// NoteColors are the six preset pastel swatches, encoded as ARGB.
var NoteColors = []uint32{
	0xFFF8D7DA,
	0xFFD4EDDA,
	0xFFFFF3CD,
	0xFFD1ECF1,
	0xFFE2E3E5,
	0xFFF3E5F5,
}

// DefaultNoteColor is applied when a note is created without an explicit color.
var DefaultNoteColor = NoteColors[0]

type Note struct {
	ID        *int64  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Timestamp int64   `json:"timestamp"`
	Color     uint32  `json:"color"`
	Pinned    bool    `json:"pinned"`
	Archived  bool    `json:"archived"`
	ImageURI  *string `json:"image_uri"`
	Reminder  *int64  `json:"reminder"`
	FolderID  *int64  `json:"folder_id"`
}

// IsEmpty reports whether the note carries no user content at all.
// Empty notes are never persisted; an already-persisted copy is deleted
// instead of being saved.
func (n *Note) IsEmpty() bool {
	return strings.TrimSpace(n.Title) == "" &&
		strings.TrimSpace(n.Content) == "" &&
		n.ImageURI == nil
}
