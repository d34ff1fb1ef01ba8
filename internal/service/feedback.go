package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/model"
	"github.com/iliyamo/sonic-seats/internal/queue"
	"github.com/iliyamo/sonic-seats/internal/store"
)

// CommentRequest carries the contact form fields.
type CommentRequest struct {
	Category    string
	Description string
	Name        string
	Phone       string
	Email       string
}

// FeedbackService appends contact-form comments to the review queue.
type FeedbackService struct {
	store  *store.Store
	events EventPublisher
	log    *zap.Logger
}

// NewFeedbackService wires a FeedbackService.  A nil publisher disables
// events.
func NewFeedbackService(s *store.Store, events EventPublisher, log *zap.Logger) *FeedbackService {
	if events == nil {
		events = NopPublisher{}
	}
	return &FeedbackService{store: s, events: events, log: log}
}

// Submit validates req and appends it to the comments document, creating
// the document when it does not exist yet.
func (s *FeedbackService) Submit(ctx context.Context, req CommentRequest) (*model.Comment, error) {
	if req.Category == "" || req.Description == "" {
		return nil, errs.Validation("Category and description are both required parameters.")
	}
	c := model.Comment{
		Category:    req.Category,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
	}

	path := s.store.CommentsPath()
	unlock := s.store.Lock(path)
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments()
	if err != nil {
		return nil, err
	}
	comments = append(comments, c)
	if err := s.store.Save(path, comments); err != nil {
		return nil, err
	}

	publishAsync(s.events, s.log, queue.CommentQueue, queue.CommentReceivedEvent{
		EventID:     uuid.NewString(),
		Category:    c.Category,
		HasName:     c.Name != "",
		HasPhone:    c.Phone != "",
		HasEmail:    c.Email != "",
		QueueLength: len(comments),
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	return &c, nil
}
