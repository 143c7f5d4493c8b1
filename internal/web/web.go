// Package web serves the browser client. Pages carry only transient UI
// state (filters, pagination, form fields); every durable fact is fetched
// from the REST API. Client-side field checks mirror the server bounds for
// responsiveness, with the server remaining the source of truth.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html
var viewsFS embed.FS

// Engine builds the fiber views engine from the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// Handler renders the client pages.
type Handler struct {
	appName string
}

// NewHandler constructs the web handler.
func NewHandler(appName string) *Handler {
	return &Handler{appName: appName}
}

// Register wires the client routes under /ui, away from the API paths.
func Register(app *fiber.App, h *Handler) {
	ui := app.Group("/ui")
	ui.Get("/", h.Landing)
	ui.Get("/tickets", h.TicketsList)
	ui.Get("/tickets/new", h.TicketNew)
	ui.Get("/tickets/:id", h.TicketDetail)
}

// Landing GET /ui.
func (h *Handler) Landing(c *fiber.Ctx) error {
	return c.Render("landing", fiber.Map{"AppName": h.appName})
}

// TicketsList GET /ui/tickets.
func (h *Handler) TicketsList(c *fiber.Ctx) error {
	return c.Render("tickets", fiber.Map{"AppName": h.appName})
}

// TicketNew GET /ui/tickets/new.
func (h *Handler) TicketNew(c *fiber.Ctx) error {
	return c.Render("ticket_new", fiber.Map{"AppName": h.appName})
}

// TicketDetail GET /ui/tickets/:id.
func (h *Handler) TicketDetail(c *fiber.Ctx) error {
	return c.Render("ticket_detail", fiber.Map{
		"AppName":  h.appName,
		"TicketID": c.Params("id"),
	})
}
