package request

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/scriptsearch/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("Moskva", 0, 0, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Raw() != "Moskva" {
		t.Errorf("Raw() = %q", r.Raw())
	}
	if got := r.Terms(); len(got) != 1 || got[0] != "Moskva" {
		t.Errorf("Terms() = %q", got)
	}
	if r.Page() != 1 {
		t.Errorf("Page() = %d, want 1", r.Page())
	}
	if r.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", r.PageSize(), DefaultPageSize)
	}
	if r.Offset() != 0 {
		t.Errorf("Offset() = %d", r.Offset())
	}
}

func TestNew_EmptySearch(t *testing.T) {
	r, err := New("", 2, 10, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Terms()) != 0 {
		t.Errorf("Terms() = %q, want none", r.Terms())
	}
	if r.Offset() != 10 {
		t.Errorf("Offset() = %d, want 10", r.Offset())
	}
}

func TestNew_PageSizeClamped(t *testing.T) {
	r, err := New("x", 1, 1000, Limits{DefaultPageSize: 5, MaxPageSize: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PageSize() != 50 {
		t.Errorf("PageSize() = %d, want 50", r.PageSize())
	}

	r, _ = New("x", 1, 0, Limits{DefaultPageSize: 5, MaxPageSize: 50})
	if r.PageSize() != 5 {
		t.Errorf("PageSize() = %d, want configured default 5", r.PageSize())
	}
}

func TestNew_DefaultAboveMax(t *testing.T) {
	r, _ := New("", 0, 0, Limits{DefaultPageSize: 500, MaxPageSize: 50})
	if r.PageSize() != 50 {
		t.Errorf("PageSize() = %d, want 50", r.PageSize())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		page     int
		pageSize int
		wantMsg  string
	}{
		{"negative page", "x", -1, 0, "page must be positive"},
		{"negative page size", "x", 1, -5, "page_size must be positive"},
		{"too long", strings.Repeat("a", MaxQueryLength+1), 1, 1, "too long"},
		{"too many terms", strings.Repeat("a ", MaxTerms+1), 1, 1, "too many search terms"},
		{"page overflows offset", "", math.MaxInt, 4, "page out of range"},
		{"page wraps offset to zero", "", math.MaxInt/4 + 1, 4, "page out of range"},
		{"page overflows default size", "", math.MaxInt/DefaultPageSize + 1, 0, "page out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.raw, tt.page, tt.pageSize, Limits{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err, tt.wantMsg)
			}
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"Moskva", []string{"Moskva"}},
		{"Moskva  Kazan", []string{"Moskva", "Kazan"}},
		{"Moskva,Kazan", []string{"Moskva", "Kazan"}},
		{"a, ,b", []string{"a", "b"}},
		{"nu\x00ll", []string{"null"}},
		{`"Nizhny Novgorod" Kazan`, []string{"Nizhny Novgorod", "Kazan"}},
		{`"unterminated phrase`, []string{"unterminated phrase"}},
		{"Москва\tКазань\n", []string{"Москва", "Казань"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseTerms(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseTerms(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("term[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNew_LargestPage(t *testing.T) {
	r, err := New("", math.MaxInt/4, 4, Limits{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Offset() < 0 {
		t.Errorf("Offset() = %d, want non-negative", r.Offset())
	}
}
