package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Pagination describes a page of list results. Total is the filtered count
// before pagination.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// TicketCreateInput describes a validated ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketUpdateInput describes a validated partial update. Nil fields leave
// the stored value untouched; an all-nil input is a valid no-op write.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// TicketListInput carries raw list filters. Unknown enum values and
// out-of-range page numbers degrade to defaults rather than failing.
type TicketListInput struct {
	Search   string
	Status   string
	Priority string
	Sort     string
	Page     int
	Limit    int
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	clock      func() time.Time
	newID      func() string
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{
		tickets:    tickets,
		dispatcher: dispatcher,
		clock:      time.Now,
		newID:      uuid.NewString,
	}
}

// Create persists a new ticket with server-generated id and timestamps.
// Status always starts OPEN; priority defaults to MEDIUM when omitted.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	now := s.clock()
	ticket := &domain.Ticket{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Get fetches a single ticket.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Ticket")
		}
		return nil, err
	}
	return ticket, nil
}

// List returns the filtered, sorted page of tickets plus pagination info.
// A page beyond the last one yields an empty slice, not an error.
func (s *TicketService) List(ctx context.Context, input TicketListInput) ([]domain.Ticket, Pagination, error) {
	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	filter := repository.TicketFilter{
		Search: input.Search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if status := domain.TicketStatus(input.Status); status.Valid() {
		filter.Status = status
	}
	if priority := domain.TicketPriority(input.Priority); priority.Valid() {
		filter.Priority = priority
	}
	if input.Sort == repository.SortOldest {
		filter.Sort = repository.SortOldest
	}

	tickets, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	return tickets, paginate(page, limit, total), nil
}

// Update applies a partial update after confirming the ticket exists.
// UpdatedAt refreshes on every call, including an empty payload.
func (s *TicketService) Update(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	oldPriority := ticket.Priority
	if input.Title != nil {
		ticket.Title = *input.Title
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	ticket.UpdatedAt = s.clock()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Ticket")
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			OldStatus:   oldStatus,
			NewStatus:   ticket.Status,
			OldPriority: oldPriority,
			NewPriority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Delete removes a ticket; its comments cascade away with it.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Ticket")
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Payload:  events.TicketDeletedPayload{Title: ticket.Title},
	})
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func paginate(page, limit, total int) Pagination {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
