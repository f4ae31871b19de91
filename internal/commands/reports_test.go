package commands

import (
	"testing"

	"school_feedback_bot/internal/feedback"
)

func TestPageIDRoundTrip(t *testing.T) {
	requests := []PageRequest{
		{Kind: feedback.KindComplaint, LocationID: 1, Page: 1},
		{Kind: feedback.KindSuggestion, LocationID: 10, Page: 37},
	}
	for _, want := range requests {
		got, ok := ParseReportsPageID(encodePageID(want))
		if !ok {
			t.Fatalf("round trip failed for %+v", want)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	}
}

func TestParseReportsPageIDRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"settings_toggle",
		"reports_page:",
		"reports_page:complaint:1",
		"reports_page:complaint:one:2",
		"reports_page:complaint:1:two",
		"reports_page:rant:1:2",
		"reports_page:complaint:1:2:3",
	}
	for _, id := range bad {
		if _, ok := ParseReportsPageID(id); ok {
			t.Errorf("id %q must not parse", id)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, want int
	}{
		{0, 1},
		{1, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, reportsPageSize); got != tt.want {
			t.Errorf("totalPages(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{0, 3, 1},
		{-5, 3, 1},
		{2, 3, 2},
		{9, 3, 3},
	}
	for _, tt := range tests {
		if got := clampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("clampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestTallySuffix(t *testing.T) {
	tests := []struct {
		count feedback.Count
		want  string
	}{
		{feedback.Count{}, ""},
		{feedback.Count{Complaints: 3}, " (🔴3)"},
		{feedback.Count{Suggestions: 5}, " (🟢5)"},
		{feedback.Count{Complaints: 3, Suggestions: 5}, " (🔴3 🟢5)"},
	}
	for _, tt := range tests {
		if got := TallySuffix(tt.count); got != tt.want {
			t.Errorf("TallySuffix(%+v) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
