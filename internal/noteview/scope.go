package noteview

import "github.com/ckapps/quicknote/internal/model"

// Scope returns the subset of notes visible under the selected folder.
// The All virtual folder shows every non-archived note, Archive shows every
// archived one, and a real folder shows its own non-archived notes. A note
// whose folder was deleted stays visible only under All.
func Scope(notes []model.Note, folderID int64) []model.Note {
	var out []model.Note
	for _, n := range notes {
		switch folderID {
		case model.FolderAllID:
			if !n.Archived {
				out = append(out, n)
			}
		case model.FolderArchiveID:
			if n.Archived {
				out = append(out, n)
			}
		default:
			if !n.Archived && n.FolderID != nil && *n.FolderID == folderID {
				out = append(out, n)
			}
		}
	}
	return out
}
