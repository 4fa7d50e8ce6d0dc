// Package table holds the state behind the book table: the loaded records,
// the search term, the sort order, pagination and the selection.
//
// The displayed view is always derived from the untouched record list, so
// searching and sorting never discard data. Mutations go through the remote
// Store and are followed by a reload, except for creates, which are patched
// in locally.
package table

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/mrlokans/booktable/internal/entities"
	"github.com/mrlokans/booktable/internal/exporters"
	"github.com/mrlokans/booktable/internal/logging"
	"github.com/mrlokans/booktable/internal/validation"
)

// Store is the remote book store. *bookapi.Client implements it.
type Store interface {
	List(ctx context.Context) ([]entities.Book, error)
	Get(ctx context.Context, id int) (*entities.Book, error)
	Create(ctx context.Context, book entities.Book) (*entities.Book, error)
	Update(ctx context.Context, id int, book entities.Book) (*entities.Book, error)
	Delete(ctx context.Context, id int) error
}

const DefaultPageSize = 10

// PageSizes are the page sizes a user can pick.
var PageSizes = []int{5, 10, 25, 50}

// View is the derived state shown to the user.
type View struct {
	Rows          []entities.Book `json:"rows"`
	Filtered      []entities.Book `json:"-"`
	Total         int             `json:"total"`
	FilteredCount int             `json:"filtered_count"`
	PageIndex     int             `json:"page_index"`
	PageSize      int             `json:"page_size"`
	PageCount     int             `json:"page_count"`
	SearchTerm    string          `json:"search_term"`
	Sort          Sort            `json:"sort"`
	SelectedID    int             `json:"selected_id,omitempty"`
	HasSelection  bool            `json:"has_selection"`
	Loading       bool            `json:"loading"`
	Loaded        bool            `json:"loaded"`
	LastError     string          `json:"last_error,omitempty"`
}

// IsSelected reports whether the record with id is the selected one.
func (v View) IsSelected(id int) bool {
	return v.HasSelection && v.SelectedID == id
}

// HasPrev and HasNext drive the pager.
func (v View) HasPrev() bool { return v.PageIndex > 0 }
func (v View) HasNext() bool { return v.PageIndex+1 < v.PageCount }

// Manager owns the table state of one user.
type Manager struct {
	store    Store
	notifier Notifier

	mu         sync.Mutex
	records    []entities.Book
	searchTerm string
	sort       Sort
	selectedID int
	selected   bool
	inFlight   int
	loaded     bool
	lastErr    error
	pageIndex  int
	pageSize   int
}

// Option configures a Manager.
type Option func(*Manager)

// WithPageSize sets the initial page size. Sizes outside PageSizes are ignored.
func WithPageSize(size int) Option {
	return func(m *Manager) {
		if slices.Contains(PageSizes, size) {
			m.pageSize = size
		}
	}
}

// NewManager creates a table backed by store. Notifications go to notifier; nil discards them.
func NewManager(store Store, notifier Notifier, opts ...Option) *Manager {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	m := &Manager{
		store:    store,
		notifier: notifier,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the local records with the full collection from the store.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.inFlight++
	m.mu.Unlock()

	books, err := m.store.List(ctx)

	m.mu.Lock()
	m.inFlight--
	if err != nil {
		m.lastErr = err
		m.mu.Unlock()

		logging.FromContext(ctx).Error("error loading books", "error", err)
		m.notifier.Notify(Notification{Level: LevelError, Message: msgLoadFailed})
		return fmt.Errorf("load books: %w", err)
	}

	m.records = uniqueByID(books)
	m.lastErr = nil
	m.loaded = true
	if m.selected && m.indexOf(m.selectedID) < 0 {
		m.selected = false
		m.selectedID = 0
	}
	m.clampPage()
	count := len(m.records)
	m.mu.Unlock()

	logging.FromContext(ctx).Debug("books loaded", "count", count)
	return nil
}

// Loaded reports whether at least one load has succeeded.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Search sets the search term and returns to the first page.
func (m *Manager) Search(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchTerm = term
	m.pageIndex = 0
}

// SetSort changes the sort order. DirectionNone or SortNone restore the natural order.
func (m *Manager) SetSort(key SortKey, dir SortDirection) error {
	if key != SortNone {
		if _, ok := comparators[key]; !ok {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidSort, key)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == SortNone || dir == DirectionNone {
		m.sort = Sort{}
		return nil
	}
	m.sort = Sort{Key: key, Direction: dir}
	return nil
}

// Select toggles the selection of the record with id.
func (m *Manager) Select(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(id) < 0 {
		return fmt.Errorf("select book %d: %w", id, ErrNotFound)
	}
	if m.selected && m.selectedID == id {
		m.selected = false
		m.selectedID = 0
		return nil
	}
	m.selected = true
	m.selectedID = id
	return nil
}

// Selected returns a copy of the selected record, or nil.
func (m *Manager) Selected() *entities.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.selected {
		return nil
	}
	i := m.indexOf(m.selectedID)
	if i < 0 {
		return nil
	}
	book := m.records[i]
	return &book
}

// Record returns a copy of the local record with id.
func (m *Manager) Record(id int) (entities.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return entities.Book{}, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return m.records[i], nil
}

// SetPage moves to the page with the given zero-based index, clamped into range.
func (m *Manager) SetPage(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageIndex = index
	m.clampPage()
}

// SetPageSize changes the page size and returns to the first page.
func (m *Manager) SetPageSize(size int) error {
	if !slices.Contains(PageSizes, size) {
		return fmt.Errorf("page size %d is not one of %v", size, PageSizes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = size
	m.pageIndex = 0
	return nil
}

// Create validates the form, creates the record remotely and puts it first in the list.
// The search term and page are reset so the new record is visible.
func (m *Manager) Create(ctx context.Context, form validation.BookForm) (*entities.Book, error) {
	book, err := form.ToBook()
	if err != nil {
		return nil, err
	}

	created, err := m.store.Create(ctx, book)
	if err != nil {
		logging.FromContext(ctx).Error("error adding book", "error", err)
		m.notifier.Notify(Notification{Level: LevelError, Message: msgCreateFailed})
		return nil, fmt.Errorf("create book: %w", err)
	}

	m.mu.Lock()
	records := make([]entities.Book, 0, len(m.records)+1)
	records = append(records, *created)
	for _, b := range m.records {
		// Stores that echo the payload return id 0 for every create; keep those.
		if created.ID != 0 && b.ID == created.ID {
			continue
		}
		records = append(records, b)
	}
	m.records = records
	m.searchTerm = ""
	m.pageIndex = 0
	m.mu.Unlock()

	m.notifier.Notify(Notification{Level: LevelSuccess, Message: msgCreated})
	return created, nil
}

// Edit validates the form, updates the record with id remotely and reloads the collection.
func (m *Manager) Edit(ctx context.Context, id int, form validation.BookForm) error {
	if _, err := m.Record(id); err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	book, err := form.ToBook()
	if err != nil {
		return err
	}
	book.ID = id

	if _, err := m.store.Update(ctx, id, book); err != nil {
		logging.FromContext(ctx).Error("error updating book", "id", id, "error", err)
		m.notifier.Notify(Notification{Level: LevelError, Message: msgUpdateFailed})
		return fmt.Errorf("update book %d: %w", id, err)
	}

	m.notifier.Notify(Notification{Level: LevelSuccess, Message: msgUpdated})
	return m.Load(ctx)
}

// DeletePrompt is the confirmation question for deleting book.
func DeletePrompt(book entities.Book) string {
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", book.Title)
}

// Delete asks confirm, deletes the record with id remotely and reloads the collection.
// A declined confirmation leaves everything untouched and returns ErrNotConfirmed.
func (m *Manager) Delete(ctx context.Context, id int, confirm Confirmer) error {
	book, err := m.Record(id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if confirm == nil || !confirm.Confirm(DeletePrompt(book)) {
		return ErrNotConfirmed
	}

	if err := m.store.Delete(ctx, id); err != nil {
		logging.FromContext(ctx).Error("error deleting book", "id", id, "error", err)
		m.notifier.Notify(Notification{Level: LevelError, Message: msgDeleteFailed})
		return fmt.Errorf("delete book %d: %w", id, err)
	}

	m.notifier.Notify(Notification{Level: LevelSuccess, Message: msgDeleted})
	return m.Load(ctx)
}

// Export writes every record matching the current search, in the current sort order,
// to w. Pagination does not limit the export.
func (m *Manager) Export(ctx context.Context, w io.Writer, exporter exporters.BookExporter) (exporters.ExportResult, error) {
	books := m.View().Filtered

	result, err := exporter.Export(w, books)
	if err != nil {
		logging.FromContext(ctx).Error("export failed", "format", exporter.Extension(), "error", err)
		m.notifier.Notify(Notification{Level: LevelError, Message: fmt.Sprintf(msgExportFailed, exporter.Name())})
		return result, fmt.Errorf("export %s: %w", exporter.Extension(), err)
	}

	m.notifier.Notify(Notification{Level: LevelSuccess, Message: fmt.Sprintf(msgExported, exporter.Name())})
	return result, nil
}

// View derives the filtered, sorted and paginated view.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := sortBooks(filterBooks(m.records, m.searchTerm), m.sort)
	pageCount := pageCountFor(len(filtered), m.pageSize)

	pageIndex := m.pageIndex
	if pageIndex >= pageCount {
		pageIndex = pageCount - 1
	}
	if pageIndex < 0 {
		pageIndex = 0
	}

	start := pageIndex * m.pageSize
	end := min(start+m.pageSize, len(filtered))
	rows := []entities.Book{}
	if start < end {
		rows = filtered[start:end]
	}

	v := View{
		Rows:          rows,
		Filtered:      filtered,
		Total:         len(m.records),
		FilteredCount: len(filtered),
		PageIndex:     pageIndex,
		PageSize:      m.pageSize,
		PageCount:     pageCount,
		SearchTerm:    m.searchTerm,
		Sort:          m.sort,
		SelectedID:    m.selectedID,
		HasSelection:  m.selected,
		Loading:       m.inFlight > 0,
		Loaded:        m.loaded,
	}
	if m.lastErr != nil {
		v.LastError = msgLoadFailed
	}
	return v
}

// indexOf returns the position of id in records, or -1. Callers hold mu.
func (m *Manager) indexOf(id int) int {
	return slices.IndexFunc(m.records, func(b entities.Book) bool { return b.ID == id })
}

// clampPage keeps the page index inside the filtered set. Callers hold mu.
func (m *Manager) clampPage() {
	n := len(filterBooks(m.records, m.searchTerm))
	last := pageCountFor(n, m.pageSize) - 1
	if m.pageIndex > last {
		m.pageIndex = last
	}
	if m.pageIndex < 0 {
		m.pageIndex = 0
	}
}

// pageCountFor never returns less than one page so an empty table still has page 0.
func pageCountFor(n, size int) int {
	if size <= 0 || n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// uniqueByID drops records whose id was already seen, keeping the first.
func uniqueByID(books []entities.Book) []entities.Book {
	seen := make(map[int]struct{}, len(books))
	out := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}
