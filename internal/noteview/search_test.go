package noteview

import (
	"testing"

	"github.com/ckapps/quicknote/internal/model"
)

func searchable(id int64, title, content string, pinned bool, imageURI *string) model.Note {
	return model.Note{ID: &id, Title: title, Content: content, Pinned: pinned, ImageURI: imageURI}
}

func TestSearchNoIntentReturnsNothing(t *testing.T) {
	notes := []model.Note{
		searchable(1, "a note", "content", true, nil),
	}

	if got := Search(notes, "", false, false); got != nil {
		t.Errorf("expected nil for empty intent, got %d notes", len(got))
	}
	if got := Search(notes, "   ", false, false); got != nil {
		t.Errorf("expected nil for whitespace query, got %d notes", len(got))
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	notes := []model.Note{
		searchable(1, "Shopping List", "milk and eggs", false, nil),
		searchable(2, "work", "quarterly REPORT", false, nil),
		searchable(3, "unrelated", "nothing here", false, nil),
	}

	assertTitles(t, Search(notes, "SHOPPING", false, false), "Shopping List")
	assertTitles(t, Search(notes, "report", false, false), "work")
	if got := Search(notes, "absent", false, false); got != nil {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestSearchMatchesTitleOrContent(t *testing.T) {
	notes := []model.Note{
		searchable(1, "groceries", "buy milk", false, nil),
		searchable(2, "other", "milk delivery schedule", false, nil),
	}

	got := Search(notes, "milk", false, false)
	assertTitles(t, got, "groceries", "other")
}

func TestSearchFacetsAreConjunctive(t *testing.T) {
	img := "photo.jpg"
	notes := []model.Note{
		searchable(1, "pinned only", "x", true, nil),
		searchable(2, "image only", "x", false, &img),
		searchable(3, "both", "x", true, &img),
		searchable(4, "neither", "x", false, nil),
	}

	assertTitles(t, Search(notes, "", true, false), "pinned only", "both")
	assertTitles(t, Search(notes, "", false, true), "image only", "both")
	assertTitles(t, Search(notes, "", true, true), "both")
}

func TestSearchQueryCombinesWithFacets(t *testing.T) {
	notes := []model.Note{
		searchable(1, "meeting notes", "agenda", true, nil),
		searchable(2, "meeting recap", "summary", false, nil),
	}

	got := Search(notes, "meeting", true, false)
	assertTitles(t, got, "meeting notes")
}

func TestSearchPreservesInputOrder(t *testing.T) {
	notes := []model.Note{
		searchable(3, "c match", "x", false, nil),
		searchable(1, "a match", "x", false, nil),
		searchable(2, "b match", "x", false, nil),
	}

	got := Search(notes, "match", false, false)
	assertTitles(t, got, "c match", "a match", "b match")
}
