package domain

// BugReportStatus enumerates triage states for bug reports.
type BugReportStatus string

const (
	BugReportStatusNew        BugReportStatus = "new"
	BugReportStatusInProgress BugReportStatus = "in-progress"
	BugReportStatusResolved   BugReportStatus = "resolved"
	BugReportStatusClosed     BugReportStatus = "closed"
)

// BugReportStatuses lists every allowed bug report status in display order.
var BugReportStatuses = []BugReportStatus{
	BugReportStatusNew,
	BugReportStatusInProgress,
	BugReportStatusResolved,
	BugReportStatusClosed,
}

// Valid reports membership in the allowed set. Any status may move to any other.
func (s BugReportStatus) Valid() bool {
	for _, candidate := range BugReportStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// BugReport is a user-submitted defect report.
type BugReport struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ScreenshotPath string          `json:"screenshotPath,omitempty"`
	SubmittedAt    Timestamp       `json:"submittedAt"`
	Status         BugReportStatus `json:"status"`
}

// RecordID implements the store's record contract.
func (b BugReport) RecordID() string {
	return b.ID
}
