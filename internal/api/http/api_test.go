package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

// memoryStore backs both repositories for handler tests, mimicking the
// relational semantics the pgx implementations rely on, including the
// foreign key check on comment insert.
type memoryStore struct {
	mu       sync.Mutex
	seq      int
	tickets  map[string]storedTicket
	comments []storedComment
}

type storedTicket struct {
	ticket domain.Ticket
	seq    int
}

type storedComment struct {
	comment domain.Comment
	seq     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tickets: make(map[string]storedTicket)}
}

type memoryTicketRepo struct{ store *memoryStore }

func (r *memoryTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.seq++
	r.store.tickets[ticket.ID] = storedTicket{ticket: *ticket, seq: r.store.seq}
	return nil
}

func (r *memoryTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ticket := stored.ticket
	return &ticket, nil
}

func (r *memoryTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.tickets[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.ticket = *ticket
	r.store.tickets[ticket.ID] = stored
	return nil
}

func (r *memoryTicketRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.tickets, id)
	kept := r.store.comments[:0]
	for _, stored := range r.store.comments {
		if stored.comment.TicketID != id {
			kept = append(kept, stored)
		}
	}
	r.store.comments = kept
	return nil
}

func (r *memoryTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []storedTicket{}
	for _, stored := range r.store.tickets {
		ticket := stored.ticket
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			title := strings.ToLower(ticket.Title)
			description := strings.ToLower(ticket.Description)
			if !strings.Contains(title, search) && !strings.Contains(description, search) {
				continue
			}
		}
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && ticket.Priority != filter.Priority {
			continue
		}
		matched = append(matched, stored)
	}

	oldest := filter.Sort == repository.SortOldest
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.ticket.CreatedAt.Equal(b.ticket.CreatedAt) {
			if oldest {
				return a.ticket.CreatedAt.Before(b.ticket.CreatedAt)
			}
			return a.ticket.CreatedAt.After(b.ticket.CreatedAt)
		}
		if oldest {
			return a.seq < b.seq
		}
		return a.seq > b.seq
	})

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	page := make([]domain.Ticket, 0, end-start)
	for _, stored := range matched[start:end] {
		page = append(page, stored.ticket)
	}
	return page, total, nil
}

type memoryCommentRepo struct{ store *memoryStore }

func (r *memoryCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[comment.TicketID]; !ok {
		return repository.ErrNotFound
	}
	r.store.seq++
	r.store.comments = append(r.store.comments, storedComment{comment: *comment, seq: r.store.seq})
	return nil
}

func (r *memoryCommentRepo) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []storedComment{}
	for _, stored := range r.store.comments {
		if stored.comment.TicketID == ticketID {
			matched = append(matched, stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.comment.CreatedAt.Equal(b.comment.CreatedAt) {
			return a.comment.CreatedAt.After(b.comment.CreatedAt)
		}
		return a.seq > b.seq
	})

	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]domain.Comment, 0, end-offset)
	for _, stored := range matched[offset:end] {
		page = append(page, stored.comment)
	}
	return page, nil
}

func (r *memoryCommentRepo) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	total := 0
	for _, stored := range r.store.comments {
		if stored.comment.TicketID == ticketID {
			total++
		}
	}
	return total, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := newMemoryStore()
	ticketRepo := &memoryTicketRepo{store: store}
	commentRepo := &memoryCommentRepo{store: store}

	dispatcher := events.NewInMemoryDispatcher()
	ticketService := service.NewTicketService(ticketRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, ticketRepo, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), "*", 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler("support-desk", "test", nil, nil),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Comments: handlers.NewCommentsHandler(commentService, ticketService),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func createTicket(t *testing.T, app *fiber.App, title, description, priority string) string {
	t.Helper()
	payload := map[string]string{"title": title, "description": description}
	if priority != "" {
		payload["priority"] = priority
	}
	raw, _ := json.Marshal(payload)
	status, body := doRequest(t, app, http.MethodPost, "/tickets", string(raw))
	if status != http.StatusCreated {
		t.Fatalf("create ticket: status %d body %v", status, body)
	}
	return body["id"].(string)
}

func TestCreateTicketAndFetch(t *testing.T) {
	app := newTestApp(t)

	id := createTicket(t, app, "Login page not loading", "The login page shows a blank white screen after the update.", "")

	status, body := doRequest(t, app, http.MethodGet, "/tickets/"+id, "")
	if status != http.StatusOK {
		t.Fatalf("get: status %d body %v", status, body)
	}
	if body["status"] != "OPEN" {
		t.Fatalf("expected OPEN status, got %v", body["status"])
	}
	if body["priority"] != "MEDIUM" {
		t.Fatalf("expected MEDIUM default priority, got %v", body["priority"])
	}
	if body["createdAt"] == nil || body["updatedAt"] == nil {
		t.Fatal("expected server-generated timestamps")
	}
}

func TestCreateTicketShortTitle(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodPost, "/tickets",
		`{"title":"Shrt","description":"A description long enough to pass validation."}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	message, _ := body["error"].(string)
	if !strings.Contains(message, "at least 5 characters") {
		t.Fatalf("expected minimum length message, got %q", message)
	}
}

func TestGetTicketNotFound(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/tickets/nope", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body["error"] != "Ticket not found" {
		t.Fatalf("expected stable error envelope, got %v", body)
	}
}

func TestListTicketsFiltering(t *testing.T) {
	app := newTestApp(t)

	loginID := createTicket(t, app, "Login page not loading", "The login page shows a blank white screen after the update.", "HIGH")
	createTicket(t, app, "Dark mode request", "Please add a dark theme to reduce eye strain at night for everyone.", "LOW")

	status, body := doRequest(t, app, http.MethodGet, "/tickets?q=LOGIN", "")
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	tickets := body["tickets"].([]any)
	if len(tickets) != 1 {
		t.Fatalf("expected 1 match for case-insensitive search, got %d", len(tickets))
	}
	if tickets[0].(map[string]any)["id"] != loginID {
		t.Fatal("search matched the wrong ticket")
	}

	status, body = doRequest(t, app, http.MethodGet, "/tickets?q=login&status=RESOLVED", "")
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	if len(body["tickets"].([]any)) != 0 {
		t.Fatal("status filter must exclude tickets in other states")
	}

	status, body = doRequest(t, app, http.MethodGet, "/tickets?priority=LOW", "")
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	if len(body["tickets"].([]any)) != 1 {
		t.Fatal("priority filter must narrow the list")
	}
}

func TestListTicketsPagination(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 12; i++ {
		createTicket(t, app, "Repeated issue report", "The same problem keeps showing up in slightly different places.", "")
	}

	status, body := doRequest(t, app, http.MethodGet, "/tickets", "")
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	pagination := body["pagination"].(map[string]any)
	if pagination["total"].(float64) != 12 || pagination["totalPages"].(float64) != 2 {
		t.Fatalf("unexpected pagination: %v", pagination)
	}
	if len(body["tickets"].([]any)) != 10 {
		t.Fatalf("expected a 10-item first page, got %d", len(body["tickets"].([]any)))
	}

	status, body = doRequest(t, app, http.MethodGet, "/tickets?page=2", "")
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	if len(body["tickets"].([]any)) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(body["tickets"].([]any)))
	}

	// A page beyond the last yields an empty array, not an error.
	status, body = doRequest(t, app, http.MethodGet, "/tickets?page=9", "")
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	if len(body["tickets"].([]any)) != 0 {
		t.Fatal("expected empty tickets array beyond the last page")
	}

	// Malformed paging values degrade to defaults.
	status, body = doRequest(t, app, http.MethodGet, "/tickets?page=abc&limit=-3", "")
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	pagination = body["pagination"].(map[string]any)
	if pagination["page"].(float64) != 1 || pagination["limit"].(float64) != 10 {
		t.Fatalf("expected default paging, got %v", pagination)
	}
}

func TestListTicketsSortOrder(t *testing.T) {
	app := newTestApp(t)

	firstID := createTicket(t, app, "First reported problem", "This one arrived before the other report did, by a clear margin.", "")
	secondID := createTicket(t, app, "Second reported problem", "This one arrived after the other report did, by a clear margin.", "")

	_, body := doRequest(t, app, http.MethodGet, "/tickets", "")
	tickets := body["tickets"].([]any)
	if tickets[0].(map[string]any)["id"] != secondID {
		t.Fatal("default sort must be newest-first")
	}

	_, body = doRequest(t, app, http.MethodGet, "/tickets?sort=oldest", "")
	tickets = body["tickets"].([]any)
	if tickets[0].(map[string]any)["id"] != firstID {
		t.Fatal("oldest sort must flip the order")
	}
}

func TestUpdateTicketRoundTrip(t *testing.T) {
	app := newTestApp(t)

	id := createTicket(t, app, "Login page not loading", "The login page shows a blank white screen after the update.", "HIGH")
	_, created := doRequest(t, app, http.MethodGet, "/tickets/"+id, "")

	time.Sleep(5 * time.Millisecond)
	status, updated := doRequest(t, app, http.MethodPatch, "/tickets/"+id, `{"status":"IN_PROGRESS"}`)
	if status != http.StatusOK {
		t.Fatalf("patch: status %d body %v", status, updated)
	}
	if updated["status"] != "IN_PROGRESS" {
		t.Fatalf("expected IN_PROGRESS, got %v", updated["status"])
	}
	if updated["title"] != created["title"] || updated["description"] != created["description"] || updated["priority"] != created["priority"] {
		t.Fatal("unspecified fields must survive a status-only update")
	}
	if updated["createdAt"] != created["createdAt"] {
		t.Fatal("createdAt must be immutable")
	}
	before, _ := time.Parse(time.RFC3339Nano, created["updatedAt"].(string))
	after, _ := time.Parse(time.RFC3339Nano, updated["updatedAt"].(string))
	if !after.After(before) {
		t.Fatalf("updatedAt must strictly increase: %v -> %v", before, after)
	}
}

func TestUpdateTicketValidationAndMissing(t *testing.T) {
	app := newTestApp(t)
	id := createTicket(t, app, "Login page not loading", "The login page shows a blank white screen after the update.", "")

	status, body := doRequest(t, app, http.MethodPatch, "/tickets/"+id, `{"status":"CLOSED"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %v", status, body)
	}

	// Existence is checked before validation for path-referenced tickets.
	status, body = doRequest(t, app, http.MethodPatch, "/tickets/nope", `{"status":"CLOSED"}`)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 before validation, got %d body %v", status, body)
	}

	// An empty payload is an accepted no-op write.
	status, _ = doRequest(t, app, http.MethodPatch, "/tickets/"+id, `{}`)
	if status != http.StatusOK {
		t.Fatalf("empty patch: expected 200, got %d", status)
	}
}

func TestDeleteTicket(t *testing.T) {
	app := newTestApp(t)
	id := createTicket(t, app, "Login page not loading", "The login page shows a blank white screen after the update.", "")

	status, body := doRequest(t, app, http.MethodDelete, "/tickets/"+id, "")
	if status != http.StatusOK {
		t.Fatalf("delete: status %d", status)
	}
	if body["message"] != "Ticket deleted successfully" {
		t.Fatalf("unexpected delete envelope: %v", body)
	}

	status, _ = doRequest(t, app, http.MethodDelete, "/tickets/"+id, "")
	if status != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", status)
	}
}

func TestCommentsFlow(t *testing.T) {
	app := newTestApp(t)
	id := createTicket(t, app, "Login page not loading", "The login page shows a blank white screen after the update.", "")

	status, first := doRequest(t, app, http.MethodPost, "/tickets/"+id+"/comments",
		`{"authorName":"Support Agent","message":"We are looking into it."}`)
	if status != http.StatusCreated {
		t.Fatalf("first comment: status %d body %v", status, first)
	}
	if first["ticketId"] != id {
		t.Fatalf("comment must reference its ticket, got %v", first["ticketId"])
	}

	status, _ = doRequest(t, app, http.MethodPost, "/tickets/"+id+"/comments",
		`{"authorName":"John Doe","message":"Any update on this?"}`)
	if status != http.StatusCreated {
		t.Fatalf("second comment: status %d", status)
	}

	status, body := doRequest(t, app, http.MethodGet, "/tickets/"+id+"/comments", "")
	if status != http.StatusOK {
		t.Fatalf("list comments: status %d", status)
	}
	comments := body["comments"].([]any)
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].(map[string]any)["authorName"] != "John Doe" {
		t.Fatal("comments must come back newest-first")
	}
	pagination := body["pagination"].(map[string]any)
	if pagination["total"].(float64) != 2 {
		t.Fatalf("expected total 2, got %v", pagination["total"])
	}
}

func TestCommentValidation(t *testing.T) {
	app := newTestApp(t)
	id := createTicket(t, app, "Login page not loading", "The login page shows a blank white screen after the update.", "")

	status, body := doRequest(t, app, http.MethodPost, "/tickets/"+id+"/comments",
		`{"authorName":"","message":""}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	message, _ := body["error"].(string)
	if message != "Author name is required, Message must be at least 1 character" {
		t.Fatalf("expected joined messages, got %q", message)
	}
}

func TestCommentAgainstMissingTicket(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodPost, "/tickets/nope/comments",
		`{"authorName":"Jess","message":"Hello?"}`)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %v", status, body)
	}

	status, _ = doRequest(t, app, http.MethodGet, "/tickets/nope/comments", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 on listing, got %d", status)
	}
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/health/live", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["status"] != "alive" {
		t.Fatalf("unexpected liveness body: %v", body)
	}
}
