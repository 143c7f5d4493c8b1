package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/validation"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// CommentsHandler manages the comment endpoints nested under a ticket.
type CommentsHandler struct {
	comments *service.CommentService
	tickets  *service.TicketService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService, ticketService *service.TicketService) *CommentsHandler {
	return &CommentsHandler{comments: commentService, tickets: ticketService}
}

// ListComments GET /tickets/:id/comments.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 10)

	comments, pagination, err := h.comments.ListForTicket(c.UserContext(), c.Params("id"), page, limit)
	if err != nil {
		return err
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(dto.CommentListResponse{
		Comments:   items,
		Pagination: dto.NewPagination(pagination),
	})
}

// CreateComment POST /tickets/:id/comments.
func (h *CommentsHandler) CreateComment(c *fiber.Ctx) error {
	if _, err := h.tickets.Get(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	normalized, errs := validation.CreateComment(req.AuthorName, req.Message)
	if len(errs) > 0 {
		return apperrors.NewValidationError(strings.Join(errs, ", "))
	}

	comment, err := h.comments.Add(c.UserContext(), c.Params("id"), service.CommentCreateInput{
		AuthorName: normalized.AuthorName,
		Message:    normalized.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCommentResponse(comment))
}
