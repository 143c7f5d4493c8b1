package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	AuthorName string `json:"authorName"`
	Message    string `json:"message"`
}

// CommentResponse mirrors a comment record.
type CommentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticketId"`
	AuthorName string    `json:"authorName"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommentListResponse is the GET /tickets/:id/comments envelope.
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorName: comment.AuthorName,
		Message:    comment.Message,
		CreatedAt:  comment.CreatedAt,
	}
}
