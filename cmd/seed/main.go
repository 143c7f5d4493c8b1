// Command seed wipes and repopulates the database with sample tickets and
// comments for local development.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

var sampleTickets = []struct {
	title       string
	description string
	status      domain.TicketStatus
	priority    domain.TicketPriority
}{
	{
		title:       "Login page not loading properly",
		description: "When I try to access the login page, it shows a blank white screen. This issue started happening after the latest update. I have tried clearing my browser cache but the problem persists.",
		status:      domain.TicketStatusOpen,
		priority:    domain.TicketPriorityHigh,
	},
	{
		title:       "Need password reset for my account",
		description: "I forgot my password and the reset email is not arriving in my inbox. I have checked spam folder as well. Please help me recover access to my account as soon as possible.",
		status:      domain.TicketStatusInProgress,
		priority:    domain.TicketPriorityMedium,
	},
	{
		title:       "Feature request: Dark mode support",
		description: "It would be great if the application had a dark mode option. Many users prefer dark themes for better visibility at night and to reduce eye strain during long usage sessions.",
		status:      domain.TicketStatusOpen,
		priority:    domain.TicketPriorityLow,
	},
	{
		title:       "Payment processing error on checkout",
		description: "Getting an error message when trying to complete payment. The error says Transaction failed but my card details are correct. This is blocking me from making any purchases on the platform.",
		status:      domain.TicketStatusOpen,
		priority:    domain.TicketPriorityHigh,
	},
	{
		title:       "Mobile app crashes on startup",
		description: "The mobile app crashes immediately after opening on my Android device. I am using a Samsung Galaxy S21 with Android 13. The app was working fine until yesterday but now it wont open at all.",
		status:      domain.TicketStatusResolved,
		priority:    domain.TicketPriorityHigh,
	},
	{
		title:       "Slow loading times on dashboard",
		description: "The main dashboard is taking more than 30 seconds to load. This makes it very difficult to use the application efficiently. Other pages seem to work fine but dashboard is very slow.",
		status:      domain.TicketStatusInProgress,
		priority:    domain.TicketPriorityMedium,
	},
}

var sampleComments = []struct {
	authorName string
	message    string
}{
	{authorName: "Support Agent", message: "Thank you for reporting this issue. We are looking into it."},
	{authorName: "John Doe", message: "Any update on this? Still facing the same problem."},
	{authorName: "Tech Team", message: "We have identified the root cause and working on a fix."},
	{authorName: "Admin", message: "This should be resolved now. Please try again and let us know."},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required for seeding")
	}

	if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Comments cascade away with their tickets.
	if _, err := pool.Exec(ctx, "DELETE FROM tickets"); err != nil {
		logger.Fatal("failed to clear tickets", zap.Error(err))
	}
	logger.Info("cleared existing data")

	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	ticketService := service.NewTicketService(ticketRepo, nil)
	commentService := service.NewCommentService(commentRepo, ticketRepo, nil)

	created := make([]*domain.Ticket, 0, len(sampleTickets))
	for _, sample := range sampleTickets {
		ticket, err := ticketService.Create(ctx, service.TicketCreateInput{
			Title:       sample.title,
			Description: sample.description,
			Priority:    sample.priority,
		})
		if err != nil {
			logger.Fatal("failed to create ticket", zap.Error(err))
		}
		if sample.status != domain.TicketStatusOpen {
			status := sample.status
			if _, err := ticketService.Update(ctx, ticket.ID, service.TicketUpdateInput{Status: &status}); err != nil {
				logger.Fatal("failed to set ticket status", zap.Error(err))
			}
		}
		created = append(created, ticket)
		logger.Info("created ticket", zap.String("title", ticket.Title))
	}

	// First three tickets get a growing slice of the sample thread.
	for i := 0; i < 3 && i < len(created); i++ {
		count := i + 2
		if count > len(sampleComments) {
			count = len(sampleComments)
		}
		for j := 0; j < count; j++ {
			if _, err := commentService.Add(ctx, created[i].ID, service.CommentCreateInput{
				AuthorName: sampleComments[j].authorName,
				Message:    sampleComments[j].message,
			}); err != nil {
				logger.Fatal("failed to create comment", zap.Error(err))
			}
		}
		logger.Info("added comments", zap.Int("count", count), zap.String("ticket_id", created[i].ID))
	}

	logger.Info("seeding complete", zap.Int("tickets", len(created)))
}
