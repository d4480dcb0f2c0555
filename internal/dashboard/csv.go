package dashboard

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

// Export kinds, also used as the filename stem.
const (
	KindBugReports = "bug-reports"
	KindFeedback   = "feedback"
)

var (
	bugReportHeader = []string{"ID", "Title", "Description", "Status", "Submitted At"}
	feedbackHeader  = []string{"ID", "Name", "Email", "Rating", "Category", "Feedback", "Status", "Submitted At"}
)

// ExportFilename returns "<kind>-YYYY-MM-DD.csv" for the UTC date of now.
func ExportFilename(kind string, now time.Time) string {
	return kind + "-" + now.UTC().Format("2006-01-02") + ".csv"
}

// WriteBugReportsCSV writes a header row followed by one row per report.
func WriteBugReportsCSV(w io.Writer, reports []domain.BugReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bugReportHeader); err != nil {
		return err
	}
	for _, r := range reports {
		if err := cw.Write([]string{
			r.ID,
			r.Title,
			r.Description,
			string(r.Status),
			r.SubmittedAt.String(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFeedbackCSV writes a header row followed by one row per entry. The
// category column keeps the stored value, blank included.
func WriteFeedbackCSV(w io.Writer, entries []domain.Feedback) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(feedbackHeader); err != nil {
		return err
	}
	for _, f := range entries {
		if err := cw.Write([]string{
			f.ID,
			f.Name,
			f.Email,
			strconv.Itoa(f.Rating),
			f.Category,
			f.Feedback,
			string(f.Status),
			f.SubmittedAt.String(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
