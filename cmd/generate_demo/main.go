// Command generate_demo creates a book store database with public domain books.
// Usage: go run ./cmd/generate_demo [-db path/to/store.db] [-seed 20]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/mrlokans/booktable/internal/config"
	"github.com/mrlokans/booktable/internal/database"
	"github.com/mrlokans/booktable/internal/database/books"
	"github.com/mrlokans/booktable/internal/entities"
)

func main() {
	dbPath := flag.String("db", config.DefaultStoreDatabasePath, "path to the store database file")
	seed := flag.Int("seed", 0, "number of generated \"Book i\" records to add after the classics")
	flag.Parse()

	if err := run(*dbPath, *seed); err != nil {
		slog.Error("failed to generate demo database", "error", err)
		os.Exit(1)
	}
}

func run(dbPath string, seed int) error {
	slog.Info("generating demo database", "path", dbPath)

	// Delete existing database to start fresh
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	all := demoBooks()
	offset := len(all)
	for i, b := range books.SeedData(seed) {
		b.ID = offset + i + 1
		all = append(all, b)
	}

	repo := books.NewRepository(db.DB)
	if err := repo.Reset(context.Background(), all); err != nil {
		return err
	}

	slog.Info("demo database generated", "books", len(all))
	return nil
}

func published(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func demoBooks() []entities.Book {
	list := []entities.Book{
		{
			Title:       "Meditations",
			Description: "Private notes of the Roman emperor Marcus Aurelius on Stoic philosophy, duty and the discipline of the mind.",
			PageCount:   254,
			PublishDate: published(1558, time.January, 1),
		},
		{
			Title:       "Pride and Prejudice",
			Description: "Elizabeth Bennet and Mr. Darcy misjudge each other across the drawing rooms of Regency England.",
			PageCount:   432,
			PublishDate: published(1813, time.January, 28),
		},
		{
			Title:       "Frankenstein",
			Description: "A young scientist creates a living being and flees from the consequences of his ambition.",
			PageCount:   280,
			PublishDate: published(1818, time.January, 1),
		},
		{
			Title:       "Moby-Dick",
			Description: "Captain Ahab hunts the white whale that took his leg, narrated by the sailor Ishmael.",
			PageCount:   635,
			PublishDate: published(1851, time.October, 18),
		},
		{
			Title:       "On the Origin of Species",
			Description: "Charles Darwin sets out the theory of evolution by natural selection.",
			PageCount:   502,
			PublishDate: published(1859, time.November, 24),
		},
		{
			Title:       "Alice's Adventures in Wonderland",
			Description: "A girl follows a white rabbit down a hole into a world of nonsense and riddles.",
			PageCount:   192,
			PublishDate: published(1865, time.November, 26),
		},
		{
			Title:       "Crime and Punishment",
			Description: "A poor former student in Saint Petersburg commits a murder and wrestles with guilt.",
			PageCount:   671,
			PublishDate: published(1866, time.January, 1),
		},
		{
			Title:       "The Adventures of Sherlock Holmes",
			Description: "Twelve stories of the consulting detective and his friend Dr. Watson.",
			PageCount:   307,
			PublishDate: published(1892, time.October, 14),
		},
		{
			Title:       "The Time Machine",
			Description: "A Victorian inventor travels to the year 802,701 and finds humanity divided in two.",
			PageCount:   118,
			PublishDate: published(1895, time.January, 1),
		},
		{
			Title:       "The Art of War",
			Description: "Sun Tzu's classic treatise on strategy, planning and the conduct of conflict.",
			PageCount:   96,
			PublishDate: published(1910, time.January, 1),
		},
	}
	for i := range list {
		list[i].ID = i + 1
	}
	return list
}
