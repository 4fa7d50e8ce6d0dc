package books

import (
	"fmt"
	"time"

	"github.com/mrlokans/booktable/internal/entities"
)

// SeedReference is the date the seed publish dates count back from.
var SeedReference = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const seedDescription = "Lorem lorem lorem. Lorem lorem lorem. Lorem lorem lorem.\n"

// SeedData returns n example books shaped like the public fake API's:
// "Book i" with 100*i pages, published i days before SeedReference.
func SeedData(n int) []entities.Book {
	books := make([]entities.Book, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		books = append(books, entities.Book{
			ID:          i,
			Title:       fmt.Sprintf("Book %d", i),
			Description: seedDescription,
			PageCount:   100 * i,
			PublishDate: SeedReference.AddDate(0, 0, -i),
		})
	}
	return books
}
