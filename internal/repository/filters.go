package repository

import (
	"strconv"
	"strings"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

// BugReportFilter narrows bug report listings. Nil fields do not filter.
type BugReportFilter struct {
	Status *domain.BugReportStatus
	Search string
}

// Matches applies the filter to a single report.
func (f BugReportFilter) Matches(r domain.BugReport) bool {
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Search != "" {
		return containsFold(f.Search, r.Title, r.Description)
	}
	return true
}

// FeedbackFilter narrows feedback listings. Nil fields do not filter.
type FeedbackFilter struct {
	Status   *domain.FeedbackStatus
	Rating   *int
	Category *string
	Search   string
}

// Matches applies the filter to a single feedback entry.
func (f FeedbackFilter) Matches(fb domain.Feedback) bool {
	if f.Status != nil && fb.Status != *f.Status {
		return false
	}
	if f.Rating != nil && fb.Rating != *f.Rating {
		return false
	}
	if f.Category != nil && fb.Category != *f.Category {
		return false
	}
	if f.Search != "" {
		return containsFold(f.Search, fb.Name, fb.Email, fb.Feedback, fb.Category)
	}
	return true
}

// filterAll is the query value meaning "no filter".
const filterAll = "all"

// ParseBugReportFilter builds a filter from raw query values. An unknown
// status is kept and matches nothing.
func ParseBugReportFilter(status, search string) BugReportFilter {
	f := BugReportFilter{Search: search}
	if status != "" && status != filterAll {
		s := domain.BugReportStatus(status)
		f.Status = &s
	}
	return f
}

// ParseFeedbackFilter builds a filter from raw query values. A rating that
// is not an integer becomes a filter no entry can satisfy.
func ParseFeedbackFilter(status, rating, category, search string) FeedbackFilter {
	f := FeedbackFilter{Search: search}
	if status != "" && status != filterAll {
		s := domain.FeedbackStatus(status)
		f.Status = &s
	}
	if rating != "" && rating != filterAll {
		n, err := strconv.Atoi(strings.TrimSpace(rating))
		if err != nil {
			n = 0
		}
		f.Rating = &n
	}
	if category != "" && category != filterAll {
		c := category
		f.Category = &c
	}
	return f
}

func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
