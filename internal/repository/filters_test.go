package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

func TestParseBugReportFilter(t *testing.T) {
	assert.Nil(t, ParseBugReportFilter("", "").Status)
	assert.Nil(t, ParseBugReportFilter("all", "").Status)

	f := ParseBugReportFilter("resolved", "Crash")
	require.NotNil(t, f.Status)
	assert.Equal(t, domain.BugReportStatusResolved, *f.Status)
	assert.Equal(t, "Crash", f.Search)

	unknown := ParseBugReportFilter("bogus", "")
	assert.False(t, unknown.Matches(domain.BugReport{Status: domain.BugReportStatusNew}))
}

func TestParseFeedbackFilter(t *testing.T) {
	none := ParseFeedbackFilter("all", "all", "all", "")
	assert.Nil(t, none.Status)
	assert.Nil(t, none.Rating)
	assert.Nil(t, none.Category)
	assert.True(t, none.Matches(domain.Feedback{Rating: 3}))

	f := ParseFeedbackFilter("new", "4", "UI", "")
	require.NotNil(t, f.Rating)
	assert.Equal(t, 4, *f.Rating)
	assert.True(t, f.Matches(domain.Feedback{Status: domain.FeedbackStatusNew, Rating: 4, Category: "UI"}))
	assert.False(t, f.Matches(domain.Feedback{Status: domain.FeedbackStatusNew, Rating: 4, Category: "ui"}))

	junk := ParseFeedbackFilter("", "five", "", "")
	require.NotNil(t, junk.Rating)
	for r := 1; r <= 5; r++ {
		assert.False(t, junk.Matches(domain.Feedback{Rating: r}))
	}
}
