package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ckapps/quicknote/internal/model"
)

// ErrFolderNotEmpty is returned when deleting a folder that notes still
// reference. The schema restricts (not cascades) the delete.
var ErrFolderNotEmpty = errors.New("folder still contains notes")

type FolderStore struct {
	db *sql.DB
}

func NewFolderStore(db *sql.DB) *FolderStore {
	return &FolderStore{db: db}
}

// ListWithCounts returns stored folders newest first, each with the count of
// non-archived notes referencing it. Virtual folders are not stored and never
// appear here.
func (s *FolderStore) ListWithCounts() ([]model.Folder, error) {
	rows, err := s.db.Query(
		`SELECT f.id, f.name, f.timestamp, COUNT(n.id)
		 FROM folders f
		 LEFT JOIN notes n ON f.id = n.folder_id AND n.archived = 0
		 GROUP BY f.id
		 ORDER BY f.timestamp DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []model.Folder
	for rows.Next() {
		var f model.Folder
		var id int64
		if err := rows.Scan(&id, &f.Name, &f.Timestamp, &f.NoteCount); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		f.ID = &id
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *FolderStore) GetByID(id int64) (*model.Folder, error) {
	var f model.Folder
	var fid int64
	err := s.db.QueryRow(`SELECT id, name, timestamp FROM folders WHERE id = ?`, id).
		Scan(&fid, &f.Name, &f.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	f.ID = &fid
	return &f, nil
}

func (s *FolderStore) GetByName(name string) (*model.Folder, error) {
	var f model.Folder
	var fid int64
	err := s.db.QueryRow(`SELECT id, name, timestamp FROM folders WHERE name = ? LIMIT 1`, name).
		Scan(&fid, &f.Name, &f.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get folder by name: %w", err)
	}
	f.ID = &fid
	return &f, nil
}

// Save inserts the folder, or replaces the row when an identifier is present.
// Renames go through the same path: re-save with the same ID and a new name.
// Returns the assigned identifier.
func (s *FolderStore) Save(folder *model.Folder) (int64, error) {
	if folder.ID == nil {
		result, err := s.db.Exec(
			`INSERT INTO folders (name, timestamp) VALUES (?, ?)`,
			folder.Name, folder.Timestamp,
		)
		if err != nil {
			return 0, fmt.Errorf("insert folder: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("last insert id: %w", err)
		}
		return id, nil
	}

	// ON CONFLICT rather than INSERT OR REPLACE: REPLACE deletes the old row
	// first, which the notes foreign key restricts for non-empty folders.
	_, err := s.db.Exec(
		`INSERT INTO folders (id, name, timestamp) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		*folder.ID, folder.Name, folder.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert folder: %w", err)
	}
	return *folder.ID, nil
}

// Delete removes the folder. Fails with ErrFolderNotEmpty when notes still
// reference it.
func (s *FolderStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint") {
			return ErrFolderNotEmpty
		}
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}
