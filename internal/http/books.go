package http

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/session"
	"github.com/mrlokans/booktable/internal/table"
	"github.com/mrlokans/booktable/internal/validation"
)

// bookFormInput is the raw form post. It is converted to a
// validation.BookForm so that validation happens in one place.
type bookFormInput struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	PageCount   string `form:"pageCount"`
	PublishDate string `form:"publishDate"`
}

func (in bookFormInput) toForm() validation.BookForm {
	form := validation.BookForm{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PublishDate: strings.TrimSpace(in.PublishDate),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(in.PageCount)); err == nil {
		form.PageCount = &n
	}
	return form
}

// BooksController serves the create, edit and delete dialogs.
type BooksController struct {
	notes notifier
}

func NewBooksController(sessions *session.SessionManager) *BooksController {
	return &BooksController{notes: notifier{sessions: sessions}}
}

type formPage struct {
	Title     string
	Action    string
	Submit    string
	Form      validation.BookForm
	Errors    validation.FieldErrors
	CSRFField template.HTML
}

func (bc *BooksController) renderForm(c *gin.Context, status int, page formPage) {
	page.CSRFField = session.CSRFField(c)
	if page.Errors == nil {
		page.Errors = validation.FieldErrors{}
	}
	c.HTML(status, "book_form", page)
}

// NewForm shows an empty create form.
func (bc *BooksController) NewForm(c *gin.Context) {
	bc.renderForm(c, http.StatusOK, formPage{
		Title:  "Add book",
		Action: "/ui/books",
		Submit: "Add",
	})
}

// Create submits the create form. Invalid forms are shown again with
// messages and nothing is sent to the book store.
func (bc *BooksController) Create(c *gin.Context) {
	ws := workspaceFrom(c)

	var in bookFormInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form")
		return
	}
	form := in.toForm()

	_, err := ws.Manager.Create(c.Request.Context(), form)
	if fields, ok := validation.AsError(err); ok {
		bc.renderForm(c, http.StatusUnprocessableEntity, formPage{
			Title:  "Add book",
			Action: "/ui/books",
			Submit: "Add",
			Form:   form,
			Errors: fields,
		})
		return
	}

	bc.notes.keep(c, ws)
	redirectHome(c)
}

// EditForm shows the edit form pre-filled from the record.
func (bc *BooksController) EditForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := workspaceFrom(c).Manager.Record(id)
	if err != nil {
		respondNotFound(c, "book")
		return
	}
	bc.renderForm(c, http.StatusOK, formPage{
		Title:  "Edit book",
		Action: "/ui/books/" + strconv.Itoa(id),
		Submit: "Save",
		Form:   validation.FormFromBook(book),
	})
}

// Edit submits the edit form.
func (bc *BooksController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ws := workspaceFrom(c)

	var in bookFormInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form")
		return
	}
	form := in.toForm()

	err := ws.Manager.Edit(c.Request.Context(), id, form)
	if errors.Is(err, table.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if fields, ok := validation.AsError(err); ok {
		bc.renderForm(c, http.StatusUnprocessableEntity, formPage{
			Title:  "Edit book",
			Action: "/ui/books/" + strconv.Itoa(id),
			Submit: "Save",
			Form:   form,
			Errors: fields,
		})
		return
	}

	bc.notes.keep(c, ws)
	redirectHome(c)
}

// DeleteConfirm asks for confirmation, naming the book.
func (bc *BooksController) DeleteConfirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := workspaceFrom(c).Manager.Record(id)
	if err != nil {
		respondNotFound(c, "book")
		return
	}
	c.HTML(http.StatusOK, "confirm_delete", gin.H{
		"Book":      book,
		"Prompt":    table.DeletePrompt(book),
		"CSRFField": session.CSRFField(c),
	})
}

// Delete removes the book when the post carries confirm=yes.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ws := workspaceFrom(c)

	confirmed := c.PostForm("confirm") == "yes"
	err := ws.Manager.Delete(c.Request.Context(), id, table.ConfirmFunc(func(string) bool {
		return confirmed
	}))
	if errors.Is(err, table.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}

	bc.notes.keep(c, ws)
	redirectHome(c)
}
