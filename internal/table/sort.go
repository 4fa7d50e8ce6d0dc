package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mrlokans/booktable/internal/entities"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortNone        SortKey = ""
	SortTitle       SortKey = "title"
	SortPageCount   SortKey = "pageCount"
	SortPublishDate SortKey = "publishDate"
)

// SortDirection is ascending, descending or none (natural order).
type SortDirection string

const (
	DirectionNone SortDirection = ""
	Ascending     SortDirection = "asc"
	Descending    SortDirection = "desc"
)

// Sort is the active sort order of the table.
type Sort struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Active reports whether the sort changes the natural order.
func (s Sort) Active() bool {
	return s.Key != SortNone && s.Direction != DirectionNone
}

type comparator func(a, b entities.Book) int

var comparators = map[SortKey]comparator{
	SortTitle: func(a, b entities.Book) int {
		return strings.Compare(a.Title, b.Title)
	},
	SortPageCount: func(a, b entities.Book) int {
		return cmp.Compare(a.PageCount, b.PageCount)
	},
	SortPublishDate: func(a, b entities.Book) int {
		return a.PublishDate.Compare(b.PublishDate)
	},
}

// ParseSortKey maps a column name to a SortKey. "" and "none" mean no sort.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.TrimSpace(s) {
	case "", "none":
		return SortNone, nil
	case string(SortTitle):
		return SortTitle, nil
	case string(SortPageCount):
		return SortPageCount, nil
	case string(SortPublishDate):
		return SortPublishDate, nil
	}
	return SortNone, fmt.Errorf("%w: unknown column %q", ErrInvalidSort, s)
}

// ParseSortDirection maps asc/desc to a SortDirection. "" and "none" mean no sort.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DirectionNone, nil
	case string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	}
	return DirectionNone, fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, s)
}

// Next returns the sort that a click on key's header produces: asc, desc, then none.
func (s Sort) Next(key SortKey) Sort {
	if s.Key != key || s.Direction == DirectionNone {
		return Sort{Key: key, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return Sort{Key: key, Direction: Descending}
	}
	return Sort{}
}

// sortBooks returns a sorted copy of books. Equal keys keep their relative order.
func sortBooks(books []entities.Book, s Sort) []entities.Book {
	sorted := slices.Clone(books)
	if !s.Active() {
		return sorted
	}
	compare, ok := comparators[s.Key]
	if !ok {
		return sorted
	}
	if s.Direction == Descending {
		asc := compare
		compare = func(a, b entities.Book) int { return asc(b, a) }
	}
	slices.SortStableFunc(sorted, compare)
	return sorted
}

// filterBooks returns the books whose title contains term, ignoring case.
func filterBooks(books []entities.Book, term string) []entities.Book {
	if term == "" {
		return slices.Clone(books)
	}
	filtered := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if b.TitleContains(term) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
