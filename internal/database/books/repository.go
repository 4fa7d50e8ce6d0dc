// Package books provides database operations for the bundled book store.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Get(ctx, 3)
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/booktable/internal/entities"
)

// ErrNotFound is returned when no book has the requested id.
var ErrNotFound = errors.New("book not found")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every book ordered by id.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Get returns the book with id.
func (r *Repository) Get(ctx context.Context, id int) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// Create stores book under a new id. Any id on the argument is ignored.
func (r *Repository) Create(ctx context.Context, book entities.Book) (*entities.Book, error) {
	book.ID = 0
	if err := r.db.WithContext(ctx).Create(&book).Error; err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return &book, nil
}

// Update replaces every field of the book with id.
func (r *Repository) Update(ctx context.Context, id int, book entities.Book) (*entities.Book, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Book
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return err
		}
		book.ID = id
		return tx.Save(&book).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update book %d: %w", id, err)
	}
	return &book, nil
}

// Delete removes the book with id.
func (r *Repository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&entities.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}

// Reset replaces the whole collection with seed, keeping the seed ids.
func (r *Repository) Reset(ctx context.Context, seed []entities.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Book{}).Error; err != nil {
			return fmt.Errorf("clear books: %w", err)
		}
		if len(seed) == 0 {
			return nil
		}
		books := append([]entities.Book(nil), seed...)
		if err := tx.CreateInBatches(&books, 100).Error; err != nil {
			return fmt.Errorf("seed books: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
