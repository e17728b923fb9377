package model

// Reserved identifiers for the virtual folders. They are never written to the
// database; the stores only ever see positive, auto-assigned IDs.
const (
	FolderAllID     int64 = -1
	FolderArchiveID int64 = -2
)

type Folder struct {
	ID        *int64 `json:"id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
	// NoteCount is derived by the store: non-archived notes referencing this
	// folder. Always zero for virtual folders.
	NoteCount int `json:"note_count"`
}

// FolderAll aggregates every non-archived note regardless of folder.
func FolderAll() Folder {
	id := FolderAllID
	return Folder{ID: &id, Name: "All"}
}

// FolderArchive aggregates every archived note regardless of folder.
func FolderArchive() Folder {
	id := FolderArchiveID
	return Folder{ID: &id, Name: "Archive"}
}

// IsVirtual reports whether the folder is one of the reserved aggregates
// (or has never been persisted). Virtual folders cannot be deleted.
func (f *Folder) IsVirtual() bool {
	return f.ID == nil || *f.ID <= 0
}
