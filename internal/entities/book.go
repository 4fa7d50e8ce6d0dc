package entities

import (
	"strings"
	"time"
)

// Book is a single record of the remote book store.
// The same type is persisted by the bundled store, so it carries gorm tags.
type Book struct {
	ID          int       `gorm:"primaryKey" json:"id,omitempty"`
	Title       string    `gorm:"index;size:512" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PageCount   int       `json:"pageCount"`
	PublishDate time.Time `gorm:"index" json:"publishDate"`
}

func (Book) TableName() string {
	return "books"
}

// TitleContains reports whether the title contains term, ignoring case.
func (b Book) TitleContains(term string) bool {
	return strings.Contains(strings.ToLower(b.Title), strings.ToLower(term))
}

// BookFields lists the record fields in wire order. Spreadsheet exports use it as the header row.
var BookFields = []string{"id", "title", "description", "pageCount", "publishDate"}
