package domain

// FeedbackStatus enumerates triage states for feedback entries.
type FeedbackStatus string

const (
	FeedbackStatusNew       FeedbackStatus = "new"
	FeedbackStatusReviewed  FeedbackStatus = "reviewed"
	FeedbackStatusResponded FeedbackStatus = "responded"
	FeedbackStatusArchived  FeedbackStatus = "archived"
)

// FeedbackStatuses lists every allowed feedback status in display order.
var FeedbackStatuses = []FeedbackStatus{
	FeedbackStatusNew,
	FeedbackStatusReviewed,
	FeedbackStatusResponded,
	FeedbackStatusArchived,
}

// Valid reports membership in the allowed set.
func (s FeedbackStatus) Valid() bool {
	for _, candidate := range FeedbackStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// DefaultCategoryLabel is shown for feedback submitted without a category.
const DefaultCategoryLabel = "General"

// Feedback is a rated product feedback entry.
type Feedback struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Rating      int            `json:"rating"`
	Category    string         `json:"category"`
	Feedback    string         `json:"feedback"`
	SubmittedAt Timestamp      `json:"submittedAt"`
	Status      FeedbackStatus `json:"status"`
}

// RecordID implements the store's record contract.
func (f Feedback) RecordID() string {
	return f.ID
}

// DisplayCategory returns the category or DefaultCategoryLabel when blank.
func (f Feedback) DisplayCategory() string {
	if f.Category == "" {
		return DefaultCategoryLabel
	}
	return f.Category
}
