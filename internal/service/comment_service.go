package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// CommentCreateInput describes a validated comment payload.
type CommentCreateInput struct {
	AuthorName string
	Message    string
}

// CommentService manages the append-only thread under a ticket.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	clock      func() time.Time
	newID      func() string
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{
		comments:   comments,
		tickets:    tickets,
		dispatcher: dispatcher,
		clock:      time.Now,
		newID:      uuid.NewString,
	}
}

// ListForTicket returns the newest-first comment page for an existing ticket.
func (s *CommentService) ListForTicket(ctx context.Context, ticketID string, page, limit int) ([]domain.Comment, Pagination, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Pagination{}, apperrors.NewNotFound("Ticket")
		}
		return nil, Pagination{}, err
	}

	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	total, err := s.comments.CountByTicket(ctx, ticketID)
	if err != nil {
		return nil, Pagination{}, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return comments, paginate(page, limit, total), nil
}

// Add appends a comment. The insert is a single statement; the foreign key
// on ticket_id makes parent existence atomic with it, so a vanished ticket
// surfaces as not-found rather than an orphaned row.
func (s *CommentService) Add(ctx context.Context, ticketID string, input CommentCreateInput) (*domain.Comment, error) {
	comment := &domain.Comment{
		ID:         s.newID(),
		TicketID:   ticketID,
		AuthorName: input.AuthorName,
		Message:    input.Message,
		CreatedAt:  s.clock(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Ticket")
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticketID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:      comment.ID,
			AuthorName:     comment.AuthorName,
			MessagePreview: stringPreview(comment.Message, 120),
		},
	})
	return comment, nil
}

func (s *CommentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = s.newID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// stringPreview truncates on rune boundaries so the event payload stays
// valid UTF-8.
func stringPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
