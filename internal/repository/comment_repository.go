package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CommentRepository manages the append-only comment thread of a ticket.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.Comment, error)
	CountByTicket(ctx context.Context, ticketID string) (int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

// Create inserts the comment in a single statement. The foreign key on
// ticket_id makes the parent existence check atomic with the insert; a
// violation surfaces as ErrNotFound.
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (id, ticket_id, author_name, message, created_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.TicketID,
		comment.AuthorName,
		comment.Message,
		comment.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isMalformedID(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author_name, message, created_at
        FROM comments WHERE ticket_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments, err := scanComments(rows)
	if err != nil {
		if isMalformedID(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE ticket_id=$1`, ticketID).Scan(&total)
	if isMalformedID(err) {
		return 0, ErrNotFound
	}
	return total, err
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	result := []domain.Comment{}
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorName,
			&comment.Message,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
