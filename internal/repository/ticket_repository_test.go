package repository

import (
	"testing"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestBuildTicketWhereNoFilters(t *testing.T) {
	where, args := buildTicketWhere(TicketFilter{})
	if where != "1=1" {
		t.Fatalf("expected no-op clause, got %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildTicketWhereSearch(t *testing.T) {
	where, args := buildTicketWhere(TicketFilter{Search: "  Login  "})
	if where != "1=1 AND (LOWER(title) LIKE $1 OR LOWER(description) LIKE $1)" {
		t.Fatalf("unexpected clause %q", where)
	}
	if len(args) != 1 || args[0] != "%login%" {
		t.Fatalf("search term must be trimmed, lowercased and wrapped, got %v", args)
	}
}

func TestBuildTicketWhereAllFilters(t *testing.T) {
	where, args := buildTicketWhere(TicketFilter{
		Search:   "login",
		Status:   domain.TicketStatusOpen,
		Priority: domain.TicketPriorityHigh,
	})
	want := "1=1 AND (LOWER(title) LIKE $1 OR LOWER(description) LIKE $1) AND status=$2 AND priority=$3"
	if where != want {
		t.Fatalf("unexpected clause %q", where)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %v", args)
	}
	if args[1] != domain.TicketStatusOpen || args[2] != domain.TicketPriorityHigh {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildTicketWhereBlankSearchIgnored(t *testing.T) {
	where, args := buildTicketWhere(TicketFilter{Search: "   "})
	if where != "1=1" || len(args) != 0 {
		t.Fatalf("whitespace search must not add a clause, got %q %v", where, args)
	}
}
