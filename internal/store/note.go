package store

import (
	"database/sql"
	"fmt"

	"github.com/ckapps/quicknote/internal/model"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

const noteCols = `id, title, content, timestamp, color, pinned, archived, image_uri, reminder, folder_id`

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	var id int64
	var pinned, archived int
	var imageURI sql.NullString
	var reminder, folderID sql.NullInt64

	err := scanner.Scan(
		&id, &n.Title, &n.Content, &n.Timestamp, &n.Color,
		&pinned, &archived, &imageURI, &reminder, &folderID,
	)
	if err != nil {
		return nil, err
	}

	n.ID = &id
	n.Pinned = pinned != 0
	n.Archived = archived != 0
	if imageURI.Valid {
		n.ImageURI = &imageURI.String
	}
	if reminder.Valid {
		n.Reminder = &reminder.Int64
	}
	if folderID.Valid {
		n.FolderID = &folderID.Int64
	}
	return &n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Save inserts the note, or replaces the existing row when the note already
// has an identifier. The returned note always carries its assigned ID.
func (s *NoteStore) Save(note *model.Note) (*model.Note, error) {
	var imageURI sql.NullString
	if note.ImageURI != nil {
		imageURI = sql.NullString{String: *note.ImageURI, Valid: true}
	}
	var reminder sql.NullInt64
	if note.Reminder != nil {
		reminder = sql.NullInt64{Int64: *note.Reminder, Valid: true}
	}
	var folderID sql.NullInt64
	if note.FolderID != nil {
		folderID = sql.NullInt64{Int64: *note.FolderID, Valid: true}
	}

	if note.ID == nil {
		result, err := s.db.Exec(
			`INSERT INTO notes (title, content, timestamp, color, pinned, archived, image_uri, reminder, folder_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			note.Title, note.Content, note.Timestamp, note.Color,
			boolToInt(note.Pinned), boolToInt(note.Archived), imageURI, reminder, folderID,
		)
		if err != nil {
			return nil, fmt.Errorf("insert note: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		return s.GetByID(id)
	}

	_, err := s.db.Exec(
		`INSERT INTO notes (id, title, content, timestamp, color, pinned, archived, image_uri, reminder, folder_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title, content = excluded.content,
		   timestamp = excluded.timestamp, color = excluded.color,
		   pinned = excluded.pinned, archived = excluded.archived,
		   image_uri = excluded.image_uri, reminder = excluded.reminder,
		   folder_id = excluded.folder_id`,
		*note.ID, note.Title, note.Content, note.Timestamp, note.Color,
		boolToInt(note.Pinned), boolToInt(note.Archived), imageURI, reminder, folderID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert note: %w", err)
	}
	return s.GetByID(*note.ID)
}

func (s *NoteStore) GetByID(id int64) (*model.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteCols+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List returns every note, newest first. Scoping to a folder and reordering
// are client-side concerns handled by the noteview package.
func (s *NoteStore) List() ([]model.Note, error) {
	rows, err := s.db.Query(`SELECT ` + noteCols + ` FROM notes ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// ListWithReminders returns notes carrying a reminder timestamp, used to
// re-arm scheduled reminders after a restart.
func (s *NoteStore) ListWithReminders() ([]model.Note, error) {
	rows, err := s.db.Query(`SELECT ` + noteCols + ` FROM notes WHERE reminder IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (s *NoteStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
