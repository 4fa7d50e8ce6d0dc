// Package validation checks book forms before anything is sent to the book store.
//
// Rules are declared with gin binding tags and evaluated by gin's
// go-playground/validator engine, so the same form type can be bound from
// HTML form posts and JSON bodies.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/booktable/internal/entities"
)

// DateLayout is the layout of date inputs in the book form.
const DateLayout = "2006-01-02"

// BookForm is the user-editable part of a book.
// PageCount is a pointer so that a missing value is distinguishable from zero.
type BookForm struct {
	Title       string `form:"title" json:"title" binding:"required,min=2"`
	Description string `form:"description" json:"description" binding:"required,min=10"`
	PageCount   *int   `form:"pageCount" json:"pageCount" binding:"required,min=1"`
	PublishDate string `form:"publishDate" json:"publishDate" binding:"required"`
}

// FieldErrors maps a form field (wire name) to its message.
type FieldErrors map[string]string

// Error is returned when a form does not pass validation.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, e.Fields[k])
	}
	return "invalid book form: " + strings.Join(messages, "; ")
}

// AsError extracts field errors from err, if it is a validation error.
func AsError(err error) (FieldErrors, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// Validate checks the form and returns an *Error listing every failing field, or nil.
func Validate(form BookForm) error {
	fields := FieldErrors{}

	if err := binding.Validator.ValidateStruct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate book form: %w", err)
		}
		for _, fe := range verrs {
			name := wireName(fe.Field())
			if _, seen := fields[name]; !seen {
				fields[name] = message(fe)
			}
		}
	}

	if _, seen := fields["publishDate"]; !seen && form.PublishDate != "" {
		if _, err := ParseDate(form.PublishDate); err != nil {
			fields["publishDate"] = "PublishDate must be a valid date"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &Error{Fields: fields}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// wireName turns a struct field name into the JSON field name (PageCount -> pageCount).
func wireName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// ParseDate accepts a form date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// ToBook converts a valid form into a record without an id.
func (f BookForm) ToBook() (entities.Book, error) {
	if err := Validate(f); err != nil {
		return entities.Book{}, err
	}
	publishDate, err := ParseDate(f.PublishDate)
	if err != nil {
		return entities.Book{}, err
	}
	return entities.Book{
		Title:       f.Title,
		Description: f.Description,
		PageCount:   *f.PageCount,
		PublishDate: publishDate,
	}, nil
}

// FormFromBook pre-fills a form from an existing record.
func FormFromBook(book entities.Book) BookForm {
	pageCount := book.PageCount
	form := BookForm{
		Title:       book.Title,
		Description: book.Description,
		PageCount:   &pageCount,
	}
	if !book.PublishDate.IsZero() {
		form.PublishDate = book.PublishDate.Format(DateLayout)
	}
	return form
}

// PageCountValue returns the page count or zero when it is missing.
func (f BookForm) PageCountValue() int {
	if f.PageCount == nil {
		return 0
	}
	return *f.PageCount
}
