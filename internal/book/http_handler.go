package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"

	"booksapi/internal/httpx"
)

const (
	msgBookNotFound      = "Book not found."
	msgMalformedBody     = "Malformed request body."
	msgBodyTooLarge      = "Request body too large."
	msgInternalError     = "Internal server error."
	msgDuplicateOnCreate = "Book with ISBN %s already exists."
	msgDuplicateOnUpdate = "Another book with ISBN %s already exists."
)

type HTTPHandler struct {
	service *Service
	metrics *Metrics
}

// NewHTTPHandler wires the service to HTTP. metrics may be nil.
func NewHTTPHandler(service *Service, metrics *Metrics) *HTTPHandler {
	return &HTTPHandler{service: service, metrics: metrics}
}

// RegisterRoutes mounts the book resource under /api/books.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/books", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/author/{author}", h.FindByAuthor)
		r.Get("/publisher/{publisher}", h.FindByPublisher)
		r.Get("/title/{title}", h.FindByTitle)
		r.Get("/yop/{yop}", h.FindByYear)
		r.Get("/genre/{genre}", h.FindByGenre)
		r.Get("/isbn/{isbn}", h.GetByISBN)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeBook(w, r)
	if !ok {
		return
	}

	out, err := h.service.Create(r.Context(), b)
	if err != nil {
		h.metrics.observeWrite("create", "error")
		h.internalError(w, r, "create", err)
		return
	}
	h.metrics.observeWrite("create", out.Result.String())

	switch out.Result {
	case ResultCreated:
		httpx.JSON(w, http.StatusCreated, out.Book)
	case ResultConflict:
		httpx.Text(w, http.StatusConflict, fmt.Sprintf(msgDuplicateOnCreate, out.ISBN))
	default:
		writeScalar(w, out)
	}
}

// Update handles PUT /api/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	b, ok := decodeBook(w, r)
	if !ok {
		return
	}

	out, err := h.service.Update(r.Context(), id, b)
	if err != nil {
		h.metrics.observeWrite("update", "error")
		h.internalError(w, r, "update", err)
		return
	}
	h.metrics.observeWrite("update", out.Result.String())

	switch out.Result {
	case ResultUpdated:
		httpx.JSON(w, http.StatusOK, out.Book)
	case ResultNotFound:
		httpx.Text(w, http.StatusNotFound, msgBookNotFound)
	case ResultConflict:
		httpx.Text(w, http.StatusConflict, fmt.Sprintf(msgDuplicateOnUpdate, out.ISBN))
	default:
		writeScalar(w, out)
	}
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	out, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.metrics.observeWrite("delete", "error")
		h.internalError(w, r, "delete", err)
		return
	}
	h.metrics.observeWrite("delete", out.Result.String())

	if out.Result == ResultDeleted {
		httpx.NoContent(w)
		return
	}
	writeScalar(w, out)
}

// Get handles GET /api/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	out, err := h.service.GetByID(r.Context(), id)
	h.renderScalar(w, r, "get", out, err)
}

// GetByISBN handles GET /api/books/isbn/{isbn}
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.GetByISBN(r.Context(), pathParam(r, "isbn"))
	h.renderScalar(w, r, "get_by_isbn", out, err)
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, "list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out.Books)
}

func (h *HTTPHandler) FindByAuthor(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.FindByAuthor(r.Context(), pathParam(r, "author"))
	h.renderList(w, r, "find_by_author", out, err)
}

func (h *HTTPHandler) FindByPublisher(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.FindByPublisher(r.Context(), pathParam(r, "publisher"))
	h.renderList(w, r, "find_by_publisher", out, err)
}

func (h *HTTPHandler) FindByTitle(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.FindByTitle(r.Context(), pathParam(r, "title"))
	h.renderList(w, r, "find_by_title", out, err)
}

func (h *HTTPHandler) FindByGenre(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.FindByGenre(r.Context(), pathParam(r, "genre"))
	h.renderList(w, r, "find_by_genre", out, err)
}

// FindByYear handles GET /api/books/yop/{yop}. A non-integer year is bad input.
func (h *HTTPHandler) FindByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(pathParam(r, "yop"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, []Book{})
		return
	}
	out, err := h.service.FindByYear(r.Context(), year)
	h.renderList(w, r, "find_by_year", out, err)
}

func (h *HTTPHandler) renderScalar(w http.ResponseWriter, r *http.Request, op string, out Outcome, err error) {
	if err != nil {
		h.internalError(w, r, op, err)
		return
	}
	writeScalar(w, out)
}

func (h *HTTPHandler) renderList(w http.ResponseWriter, r *http.Request, op string, out Outcome, err error) {
	if err != nil {
		h.internalError(w, r, op, err)
		return
	}
	switch out.Result {
	case ResultFound:
		httpx.JSON(w, http.StatusOK, out.Books)
	case ResultBadInput:
		httpx.JSON(w, http.StatusBadRequest, []Book{})
	default:
		httpx.Status(w, http.StatusNotFound)
	}
}

// writeScalar renders the outcomes shared by the single-book endpoints.
func writeScalar(w http.ResponseWriter, out Outcome) {
	switch out.Result {
	case ResultFound:
		httpx.JSON(w, http.StatusOK, out.Book)
	case ResultInvalid:
		httpx.Text(w, http.StatusBadRequest, out.Message)
	case ResultBadInput:
		httpx.Status(w, http.StatusBadRequest)
	case ResultNotFound, ResultEmpty:
		httpx.Status(w, http.StatusNotFound)
	default:
		httpx.Text(w, http.StatusInternalServerError, msgInternalError)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := httplog.LogEntry(r.Context())
	logger.Error().
		Err(err).
		Str("operation", op).
		Str("request_id", httpx.RequestIDFrom(r)).
		Msg("book storage failure")
	httpx.Text(w, http.StatusInternalServerError, msgInternalError)
}

func decodeBook(w http.ResponseWriter, r *http.Request) (Book, bool) {
	var b Book
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Text(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return Book{}, false
		}
		httpx.Text(w, http.StatusBadRequest, msgMalformedBody)
		return Book{}, false
	}
	return b, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Status(w, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// pathParam returns the decoded value of a route parameter. chi matches
// against RawPath when the request path carries escapes, so those values
// still need unescaping.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
