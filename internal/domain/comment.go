package domain

import "time"

// Comment is an append-only note on a ticket thread. Comments carry no
// update or delete semantics; their lifetime is bounded by the parent ticket.
type Comment struct {
	ID         string
	TicketID   string
	AuthorName string
	Message    string
	CreatedAt  time.Time
}
