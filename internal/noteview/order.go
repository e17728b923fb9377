// Package noteview holds the pure filtering and ordering logic that decides
// which notes a screen shows. Nothing here touches the database.
package noteview

import (
	"sort"

	"github.com/ckapps/quicknote/internal/model"
)

type SortKey int

const (
	SortByDate SortKey = iota
	SortByTitle
	SortByColor
)

type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (k SortKey) String() string {
	switch k {
	case SortByTitle:
		return "title"
	case SortByColor:
		return "color"
	default:
		return "date"
	}
}

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseSortKey maps a persisted setting value back to a SortKey, defaulting
// to date for unrecognized input.
func ParseSortKey(s string) SortKey {
	switch s {
	case "title":
		return SortByTitle
	case "color":
		return SortByColor
	default:
		return SortByDate
	}
}

// ParseDirection defaults to descending for unrecognized input.
func ParseDirection(s string) Direction {
	if s == "asc" {
		return Ascending
	}
	return Descending
}

// Order returns a new slice sorted by the given key and direction. The sort
// is stable: equal keys keep their prior relative order. Title comparison is
// case-sensitive; date and color compare numerically.
func Order(notes []model.Note, key SortKey, dir Direction) []model.Note {
	out := make([]model.Note, len(notes))
	copy(out, notes)

	less := func(a, b model.Note) bool {
		switch key {
		case SortByTitle:
			return a.Title < b.Title
		case SortByColor:
			return a.Color < b.Color
		default:
			return a.Timestamp < b.Timestamp
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}
