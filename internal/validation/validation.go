// Package validation checks the shape and bounds of incoming payloads and
// produces either a normalized record or an ordered list of human-readable
// messages. Callers join the messages with ", " when surfacing them.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Bounds count runes, not bytes, so multibyte input measures by character.
const (
	titleMin       = 5
	titleMax       = 80
	descriptionMin = 20
	descriptionMax = 2000
	authorNameMax  = 50
	messageMax     = 500
)

// TicketCreate is a normalized ticket creation payload. Priority is empty
// when omitted; the service applies the MEDIUM default.
type TicketCreate struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketUpdate is a normalized partial update. Nil fields were absent from
// the payload and leave the stored value untouched.
type TicketUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// CommentCreate is a normalized comment creation payload.
type CommentCreate struct {
	AuthorName string
	Message    string
}

// CreateTicket validates a raw create payload. Title and description are
// measured and stored after trimming.
func CreateTicket(title, description, priority string) (TicketCreate, []string) {
	var errs []string

	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < titleMin {
		errs = append(errs, "Title must be at least 5 characters")
	} else if n > titleMax {
		errs = append(errs, "Title cannot exceed 80 characters")
	}

	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(description); n < descriptionMin {
		errs = append(errs, "Description must be at least 20 characters")
	} else if n > descriptionMax {
		errs = append(errs, "Description cannot exceed 2000 characters")
	}

	normalized := TicketCreate{Title: title, Description: description}
	if priority != "" {
		p := domain.TicketPriority(priority)
		if !p.Valid() {
			errs = append(errs, "Priority must be one of LOW, MEDIUM, HIGH")
		} else {
			normalized.Priority = p
		}
	}

	if len(errs) > 0 {
		return TicketCreate{}, errs
	}
	return normalized, nil
}

// UpdateTicket validates a raw partial update. Every field is optional and an
// empty payload is a valid no-op.
func UpdateTicket(title, description, status, priority *string) (TicketUpdate, []string) {
	var errs []string
	var normalized TicketUpdate

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if n := utf8.RuneCountInString(trimmed); n < titleMin {
			errs = append(errs, "Title must be at least 5 characters")
		} else if n > titleMax {
			errs = append(errs, "Title cannot exceed 80 characters")
		} else {
			normalized.Title = &trimmed
		}
	}

	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if n := utf8.RuneCountInString(trimmed); n < descriptionMin {
			errs = append(errs, "Description must be at least 20 characters")
		} else if n > descriptionMax {
			errs = append(errs, "Description cannot exceed 2000 characters")
		} else {
			normalized.Description = &trimmed
		}
	}

	if status != nil {
		s := domain.TicketStatus(*status)
		if !s.Valid() {
			errs = append(errs, "Status must be one of OPEN, IN_PROGRESS, RESOLVED")
		} else {
			normalized.Status = &s
		}
	}

	if priority != nil {
		p := domain.TicketPriority(*priority)
		if !p.Valid() {
			errs = append(errs, "Priority must be one of LOW, MEDIUM, HIGH")
		} else {
			normalized.Priority = &p
		}
	}

	if len(errs) > 0 {
		return TicketUpdate{}, errs
	}
	return normalized, nil
}

// CreateComment validates a raw comment payload.
func CreateComment(authorName, message string) (CommentCreate, []string) {
	var errs []string

	if n := utf8.RuneCountInString(authorName); n < 1 {
		errs = append(errs, "Author name is required")
	} else if n > authorNameMax {
		errs = append(errs, "Author name cannot exceed 50 characters")
	}

	if n := utf8.RuneCountInString(message); n < 1 {
		errs = append(errs, "Message must be at least 1 character")
	} else if n > messageMax {
		errs = append(errs, "Message cannot exceed 500 characters")
	}

	if len(errs) > 0 {
		return CommentCreate{}, errs
	}
	return CommentCreate{AuthorName: authorName, Message: message}, nil
}
