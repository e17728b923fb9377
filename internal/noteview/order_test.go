package noteview

import (
	"testing"

	"github.com/ckapps/quicknote/internal/model"
)

func note(id int64, title string, ts int64, color uint32) model.Note {
	return model.Note{ID: &id, Title: title, Timestamp: ts, Color: color}
}

func titles(notes []model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func assertTitles(t *testing.T, got []model.Note, want ...string) {
	t.Helper()
	gotTitles := titles(got)
	if len(gotTitles) != len(want) {
		t.Fatalf("got %v, want %v", gotTitles, want)
	}
	for i := range want {
		if gotTitles[i] != want[i] {
			t.Fatalf("got %v, want %v", gotTitles, want)
		}
	}
}

func TestOrderByDate(t *testing.T) {
	notes := []model.Note{
		note(1, "old", 100, 0),
		note(2, "new", 300, 0),
		note(3, "mid", 200, 0),
	}

	assertTitles(t, Order(notes, SortByDate, Descending), "new", "mid", "old")
	assertTitles(t, Order(notes, SortByDate, Ascending), "old", "mid", "new")
}

func TestOrderByTitleCaseSensitive(t *testing.T) {
	notes := []model.Note{
		note(1, "banana", 0, 0),
		note(2, "Apple", 0, 0),
		note(3, "apple", 0, 0),
	}

	// Byte order: uppercase sorts before lowercase.
	assertTitles(t, Order(notes, SortByTitle, Ascending), "Apple", "apple", "banana")
	assertTitles(t, Order(notes, SortByTitle, Descending), "banana", "apple", "Apple")
}

func TestOrderByColor(t *testing.T) {
	notes := []model.Note{
		note(1, "c", 0, 0xFFFFF3CD),
		note(2, "a", 0, 0xFFD4EDDA),
		note(3, "b", 0, 0xFFF8D7DA),
	}

	assertTitles(t, Order(notes, SortByColor, Ascending), "a", "b", "c")
}

func TestOrderIsStable(t *testing.T) {
	notes := []model.Note{
		note(1, "first", 100, 0),
		note(2, "second", 100, 0),
		note(3, "third", 100, 0),
	}

	// Equal timestamps: input order survives in both directions.
	assertTitles(t, Order(notes, SortByDate, Descending), "first", "second", "third")
	assertTitles(t, Order(notes, SortByDate, Ascending), "first", "second", "third")
}

func TestOrderIsIdempotent(t *testing.T) {
	notes := []model.Note{
		note(1, "banana", 300, 2),
		note(2, "apple", 100, 1),
		note(3, "cherry", 200, 3),
	}

	once := Order(notes, SortByTitle, Ascending)
	twice := Order(once, SortByTitle, Ascending)
	assertTitles(t, twice, titles(once)...)
}

func TestOrderReversedDirectionReverses(t *testing.T) {
	notes := []model.Note{
		note(1, "banana", 300, 2),
		note(2, "apple", 100, 1),
		note(3, "cherry", 200, 3),
	}

	for _, key := range []SortKey{SortByTitle, SortByDate, SortByColor} {
		asc := Order(notes, key, Ascending)
		desc := Order(notes, key, Descending)
		for i := range asc {
			if asc[i].Title != desc[len(desc)-1-i].Title {
				t.Errorf("key %v: ascending %v is not the reverse of descending %v", key, titles(asc), titles(desc))
				break
			}
		}
	}
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	notes := []model.Note{
		note(1, "b", 200, 0),
		note(2, "a", 100, 0),
	}

	Order(notes, SortByTitle, Ascending)
	assertTitles(t, notes, "b", "a")
}

func TestSortKeyRoundTrip(t *testing.T) {
	for _, key := range []SortKey{SortByDate, SortByTitle, SortByColor} {
		if got := ParseSortKey(key.String()); got != key {
			t.Errorf("ParseSortKey(%q) = %v, want %v", key.String(), got, key)
		}
	}
	if got := ParseSortKey("garbage"); got != SortByDate {
		t.Errorf("ParseSortKey garbage = %v, want SortByDate", got)
	}

	for _, dir := range []Direction{Ascending, Descending} {
		if got := ParseDirection(dir.String()); got != dir {
			t.Errorf("ParseDirection(%q) = %v, want %v", dir.String(), got, dir)
		}
	}
	if got := ParseDirection("garbage"); got != Descending {
		t.Errorf("ParseDirection garbage = %v, want Descending", got)
	}
}
