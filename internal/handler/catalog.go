package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/model"
	"github.com/iliyamo/sonic-seats/internal/repository"
)

// Cache namespaces, one per document a response is derived from.
const (
	DocConcerts = "concerts"
	DocFAQ      = "faq"
	DocComments = "comments"
	DocCart     = "cart"
)

// CatalogHandler serves the read-only endpoints.
type CatalogHandler struct {
	Concerts *repository.ConcertRepo
	Docs     *repository.DocumentRepo
}

// GetConcert returns one concert by its position in the catalog.
func (h *CatalogHandler) GetConcert(c echo.Context) error {
	concert, err := h.Concerts.GetByID(c.Request().Context(), c.Param("concertId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, concert)
}

// ListConcerts returns the concerts matching the query filters.
func (h *CatalogHandler) ListConcerts(c echo.Context) error {
	f, err := parseConcertFilter(c)
	if err != nil {
		return err
	}
	concerts, err := h.Concerts.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, concerts)
}

// GetFAQ returns the FAQ document.
func (h *CatalogHandler) GetFAQ(c echo.Context) error {
	faq, err := h.Docs.FAQ(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faq)
}

// GetComments returns the comments awaiting review.
func (h *CatalogHandler) GetComments(c echo.Context) error {
	comments, err := h.Docs.Comments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// GetCart returns the server cart snapshot.
func (h *CatalogHandler) GetCart(c echo.Context) error {
	cart, err := h.Docs.Cart(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// parseConcertFilter reads concertIds, artist, venue, city, genre and
// limit.  concertIds may be repeated, sent as concertIds[], or comma
// separated; empty pieces are ignored and no ids at all means no id filter.
func parseConcertFilter(c echo.Context) (model.ConcertFilter, error) {
	q := c.QueryParams()
	f := model.ConcertFilter{
		Artist: q.Get("artist"),
		Venue:  q.Get("venue"),
		City:   q.Get("city"),
		Genre:  q.Get("genre"),
	}

	var raw []string
	raw = append(raw, q["concertIds"]...)
	raw = append(raw, q["concertIds[]"]...)
	for _, v := range raw {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			id, err := strconv.Atoi(p)
			if err != nil {
				return model.ConcertFilter{}, errs.Validation("Concert IDs need to be integers.")
			}
			f.ConcertIDs = append(f.ConcertIDs, id)
		}
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return model.ConcertFilter{}, errs.Validation("Limit needs to be a non-negative integer.")
		}
		f.Limit = &n
	}
	return f, nil
}
