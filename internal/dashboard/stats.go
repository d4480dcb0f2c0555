package dashboard

import (
	"math"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

// BugReportStats summarizes the bug report collection.
type BugReportStats struct {
	Total    int                            `json:"total"`
	ByStatus map[domain.BugReportStatus]int `json:"byStatus"`
}

// FeedbackStats summarizes the feedback collection.
type FeedbackStats struct {
	Total         int                           `json:"total"`
	AverageRating float64                       `json:"averageRating"`
	FiveStar      int                           `json:"fiveStar"`
	ByStatus      map[domain.FeedbackStatus]int `json:"byStatus"`
	ByCategory    map[string]int                `json:"byCategory"`
}

// Stats is the admin overview payload.
type Stats struct {
	BugReports BugReportStats `json:"bugReports"`
	Feedback   FeedbackStats  `json:"feedback"`
}

// ComputeStats aggregates both collections. Every known status appears in
// the per-status maps, zero or not. The average rating is rounded to one
// decimal and is 0 for an empty collection.
func ComputeStats(reports []domain.BugReport, feedback []domain.Feedback) Stats {
	bugs := BugReportStats{
		Total:    len(reports),
		ByStatus: make(map[domain.BugReportStatus]int, len(domain.BugReportStatuses)),
	}
	for _, s := range domain.BugReportStatuses {
		bugs.ByStatus[s] = 0
	}
	for _, r := range reports {
		bugs.ByStatus[r.Status]++
	}

	fb := FeedbackStats{
		Total:      len(feedback),
		ByStatus:   make(map[domain.FeedbackStatus]int, len(domain.FeedbackStatuses)),
		ByCategory: map[string]int{},
	}
	for _, s := range domain.FeedbackStatuses {
		fb.ByStatus[s] = 0
	}
	sum := 0
	for _, f := range feedback {
		sum += f.Rating
		if f.Rating == 5 {
			fb.FiveStar++
		}
		fb.ByStatus[f.Status]++
		fb.ByCategory[f.DisplayCategory()]++
	}
	if len(feedback) > 0 {
		fb.AverageRating = math.Round(float64(sum)/float64(len(feedback))*10) / 10
	}

	return Stats{BugReports: bugs, Feedback: fb}
}
