package noteview

import (
	"strings"

	"github.com/ckapps/quicknote/internal/model"
)

// Search filters notes by a case-insensitive substring query plus two
// conjunctive facets. With no query and no facets it returns nothing: the
// search screen stays empty until the user expresses intent. Input order is
// preserved; there is no relevance ranking.
func Search(notes []model.Note, query string, pinnedOnly, imageOnly bool) []model.Note {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" && !pinnedOnly && !imageOnly {
		return nil
	}

	var out []model.Note
	for _, n := range notes {
		if q != "" &&
			!strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			continue
		}
		if pinnedOnly && !n.Pinned {
			continue
		}
		if imageOnly && n.ImageURI == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
