package category_test

import (
	"testing"

	"github.com/appealbot/appealbot/internal/category"
)

func TestAllReturnsFixedOrder(t *testing.T) {
	t.Parallel()

	want := []category.Category{
		category.Spam,
		category.Harassment,
		category.Illegal,
		category.Unofficial,
		category.Malware,
	}

	got := category.All()
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	t.Parallel()

	first := category.All()
	first[0] = "mutated"

	if category.All()[0] != category.Spam {
		t.Error("All() must not expose internal ordering slice")
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cat   category.Category
		want  string
		known bool
	}{
		{"spam", category.Spam, "Spam report", true},
		{"harassment", category.Harassment, "Harassment/Threat", true},
		{"illegal", category.Illegal, "Illegal content", true},
		{"unofficial", category.Unofficial, "Use of unofficial apps", true},
		{"malware", category.Malware, "Sending malicious content / malware", true},
		{"unknown", category.Category("phishing"), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := category.Label(tc.cat)
			if ok != tc.known {
				t.Fatalf("Label(%q) known=%v, expected %v", tc.cat, ok, tc.known)
			}
			if got != tc.want {
				t.Errorf("Label(%q) = %q, expected %q", tc.cat, got, tc.want)
			}
		})
	}
}

func TestResolveFallsBackToRawKey(t *testing.T) {
	t.Parallel()

	if got := category.Resolve("spam"); got != "Spam report" {
		t.Errorf("Resolve(spam) = %q", got)
	}
	if got := category.Resolve("not-a-category"); got != "not-a-category" {
		t.Errorf("Resolve should pass unknown keys through, got %q", got)
	}
}
