package services

import (
	"testing"
	"time"

	"adaptlearn-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestApplyFeedbackSuccessAddsToAlpha(t *testing.T) {
	state := DefaultLearningState("alice")
	now := time.Now().UTC()

	require.NoError(t, ApplyFeedback(&state, "quiz", 0.8, "session-1", now))

	assert.InDelta(t, 1.8, state.ModeAlpha["quiz"], 1e-9)
	assert.InDelta(t, 1.0, state.ModeBeta["quiz"], 1e-9)
	require.Len(t, state.ModeHistory, 1)
	assert.Equal(t, "quiz", state.ModeHistory[0].Mode)
	assert.InDelta(t, 0.8, state.ModeHistory[0].Feedback, 1e-9)
	assert.Equal(t, "session-1", state.ModeHistory[0].SessionID)
	require.NotNil(t, state.LastUpdated)
	assert.Equal(t, now, *state.LastUpdated)
}

func TestApplyFeedbackFailureAddsToBeta(t *testing.T) {
	state := DefaultLearningState("alice")

	require.NoError(t, ApplyFeedback(&state, "flashcard", 0.2, "", time.Now().UTC()))

	assert.InDelta(t, 1.0, state.ModeAlpha["flashcard"], 1e-9)
	assert.InDelta(t, 1.8, state.ModeBeta["flashcard"], 1e-9)
}

func TestApplyFeedbackHalfCountsAsFailure(t *testing.T) {
	state := DefaultLearningState("alice")

	require.NoError(t, ApplyFeedback(&state, "interactive", 0.5, "", time.Now().UTC()))

	assert.InDelta(t, 1.0, state.ModeAlpha["interactive"], 1e-9)
	assert.InDelta(t, 1.5, state.ModeBeta["interactive"], 1e-9)
}

func TestApplyFeedbackClampsOutOfRange(t *testing.T) {
	state := DefaultLearningState("alice")

	require.NoError(t, ApplyFeedback(&state, "quiz", 3.0, "", time.Now().UTC()))
	assert.InDelta(t, 2.0, state.ModeAlpha["quiz"], 1e-9)

	require.NoError(t, ApplyFeedback(&state, "quiz", -1.0, "", time.Now().UTC()))
	assert.InDelta(t, 2.0, state.ModeBeta["quiz"], 1e-9)
}

func TestApplyFeedbackRejectsUnknownMode(t *testing.T) {
	state := DefaultLearningState("alice")

	err := ApplyFeedback(&state, "osmosis", 1.0, "", time.Now().UTC())
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeValidation))
	assert.Empty(t, state.ModeHistory)
}

func TestRecommendModeReturnsKnownMode(t *testing.T) {
	state := DefaultLearningState("alice")
	rec := RecommendMode(state, rand.NewSource(1))

	assert.Contains(t, models.Modes(), rec.RecommendedMode)
	assert.GreaterOrEqual(t, rec.Confidence, 0.0)
	assert.LessOrEqual(t, rec.Confidence, 1.0)
	for _, mode := range models.Modes() {
		assert.InDelta(t, 0.5, rec.Probabilities[mode], 1e-9)
	}
}

func TestRecommendModeFavorsDominantMode(t *testing.T) {
	state := DefaultLearningState("alice")
	state.ModeAlpha["quiz"] = 500
	state.ModeBeta["quiz"] = 1
	state.ModeAlpha["flashcard"] = 1
	state.ModeBeta["flashcard"] = 500
	state.ModeAlpha["interactive"] = 1
	state.ModeBeta["interactive"] = 500

	rec := RecommendMode(state, rand.NewSource(42))

	assert.Equal(t, "quiz", rec.RecommendedMode)
	assert.InDelta(t, 500.0/501.0, rec.Probabilities["quiz"], 1e-9)
}

func TestModeStatistics(t *testing.T) {
	state := DefaultLearningState("alice")
	state.ModeAlpha["quiz"] = 4
	state.ModeBeta["quiz"] = 2

	stats := ModeStatistics(state)

	quiz := stats["quiz"]
	assert.InDelta(t, 4.0/6.0, quiz.SuccessRate, 1e-9)
	assert.InDelta(t, 4.0, quiz.Alpha, 1e-9)
	assert.InDelta(t, 2.0, quiz.Beta, 1e-9)
	assert.InDelta(t, 4.0, quiz.TotalFeedback, 1e-9)

	flashcard := stats["flashcard"]
	assert.InDelta(t, 0.5, flashcard.SuccessRate, 1e-9)
	assert.InDelta(t, 0.0, flashcard.TotalFeedback, 1e-9)
}
