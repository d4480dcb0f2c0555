package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/repository"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := runCommand(t, "hash-password", "s3cret", "--cost", "4")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestHashPasswordCommand_RequiresArg(t *testing.T) {
	_, err := runCommand(t, "hash-password")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")

	ctx := context.Background()
	repo := repository.NewFileFeedbackRepository(filepath.Join(dataDir, "feedback.json"), nil)
	for _, fb := range []domain.Feedback{
		{ID: "feedback-1", Name: "Ada", Email: "ada@example.com", Rating: 5, Feedback: "Great, truly", Status: domain.FeedbackStatusNew},
		{ID: "feedback-2", Name: "Bob", Email: "bob@example.com", Rating: 2, Feedback: "Needs work", Status: domain.FeedbackStatusNew},
	} {
		fb := fb
		require.NoError(t, repo.Create(ctx, &fb))
	}

	out, err := runCommand(t, "export", "--kind", "feedback", "--rating", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "ID,Name,Email,Rating,Category,Feedback,Status,Submitted At")
	assert.Contains(t, out, `feedback-1,Ada,ada@example.com,5,,"Great, truly",new,`)
	assert.NotContains(t, out, "feedback-2")

	_, err = runCommand(t, "export", "--kind", "tickets")
	assert.Error(t, err)
}
