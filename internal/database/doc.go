// Package database provides the data access layer of the bundled book store.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── books/           # Book CRUD operations and seed data
//
// # Usage
//
//	db, err := database.NewDatabase("./booktable-store.db")
//	repo := books.NewRepository(db.DB)
//	all, err := repo.List(ctx)
//
// books.Repository implements store.BookRepository, which the REST controller
// in internal/store is written against.
package database
