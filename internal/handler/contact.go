package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/service"
)

// Invalidator drops cached responses derived from the named documents.
type Invalidator interface {
	Invalidate(ctx context.Context, docs ...string) error
}

// invalidate is best effort: a stale entry expires with its TTL anyway.
func invalidate(ctx context.Context, inv Invalidator, log *zap.Logger, docs ...string) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(ctx, docs...); err != nil {
		log.Warn("cache invalidation failed", zap.Strings("docs", docs), zap.Error(err))
	}
}

// ContactHandler accepts the contact form.
type ContactHandler struct {
	Feedback *service.FeedbackService
	Cache    Invalidator
	Log      *zap.Logger
}

// Submit handles POST /contact.  Optional fields left empty are not
// stored.
func (h *ContactHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	_, err := h.Feedback.Submit(ctx, service.CommentRequest{
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Name:        c.FormValue("name"),
		Phone:       c.FormValue("phone"),
		Email:       c.FormValue("email"),
	})
	if err != nil {
		return err
	}
	invalidate(ctx, h.Cache, h.Log, DocComments)
	return c.String(http.StatusOK, "Request to submit comment successfully received!")
}
