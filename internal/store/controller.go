// Package store serves the bundled book store: a sqlite-backed REST resource
// with the same wire format as the public fake API, so the table can run
// against a local, writable backend.
package store

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/database/books"
	"github.com/mrlokans/booktable/internal/entities"
	"github.com/mrlokans/booktable/internal/logging"
)

// BookRepository is the persistence the controller needs. *books.Repository implements it.
type BookRepository interface {
	List(ctx context.Context) ([]entities.Book, error)
	Get(ctx context.Context, id int) (*entities.Book, error)
	Create(ctx context.Context, book entities.Book) (*entities.Book, error)
	Update(ctx context.Context, id int, book entities.Book) (*entities.Book, error)
	Delete(ctx context.Context, id int) error
}

var _ BookRepository = (*books.Repository)(nil)

type ErrorResponse struct {
	Error string `json:"error"`
}

type BooksController struct {
	repo BookRepository
}

func NewBooksController(repo BookRepository) *BooksController {
	return &BooksController{repo: repo}
}

// RegisterRoutes mounts the resource at /Books under group.
func (bc *BooksController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/Books", bc.List)
	group.POST("/Books", bc.Create)
	group.GET("/Books/:id", bc.Get)
	group.PUT("/Books/:id", bc.Update)
	group.DELETE("/Books/:id", bc.Delete)
}

func (bc *BooksController) List(c *gin.Context) {
	all, err := bc.repo.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, all)
}

func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	book, err := bc.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (bc *BooksController) Create(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book payload: " + err.Error()})
		return
	}
	created, err := bc.repo.Create(c.Request.Context(), book)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	logging.FromContext(c.Request.Context()).Info("book created", "id", created.ID)
	c.JSON(http.StatusOK, created)
}

func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book payload: " + err.Error()})
		return
	}
	if book.ID != 0 && book.ID != id {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "book id does not match path id"})
		return
	}
	updated, err := bc.repo.Update(c.Request.Context(), id, book)
	if err != nil {
		respondRepoError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := bc.repo.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "delete book")
		return
	}
	c.Status(http.StatusOK)
}

func parseIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func respondRepoError(c *gin.Context, err error, op string) {
	if errors.Is(err, books.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "book not found"})
		return
	}
	respondInternalError(c, err, op)
}

// respondInternalError logs err and hides it from the client.
func respondInternalError(c *gin.Context, err error, op string) {
	logging.FromContext(c.Request.Context()).Error("internal error", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
