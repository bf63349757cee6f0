package services

import (
	"testing"
	"time"

	"adaptlearn-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateWithChunks() models.LearningState {
	last := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	state := DefaultLearningState("alice")
	state.ChunkPerformance = models.ChunkPerformance{
		"chunk_0": {Correct: 1, Incorrect: 3, Attempts: 4, LastAttempt: &last, SourceReference: "Chunk 0 - Intro"},
		"chunk_1": {Correct: 9, Incorrect: 1, Attempts: 10, LastAttempt: &last, SourceReference: "Chunk 1 - Basics"},
		"chunk_2": {Correct: 1, Incorrect: 0, Attempts: 1, LastAttempt: &last, SourceReference: "Chunk 2 - Depth"},
	}
	return state
}

func TestPerformanceReport(t *testing.T) {
	reports := PerformanceReport(stateWithChunks())

	require.Len(t, reports, 3)
	assert.InDelta(t, 25.0, reports["chunk_0"].Accuracy, 1e-9)
	assert.InDelta(t, 90.0, reports["chunk_1"].Accuracy, 1e-9)
	assert.Equal(t, "Chunk 0 - Intro", reports["chunk_0"].SourceReference)
}

func TestWeakAreasFiltersAndSorts(t *testing.T) {
	areas := WeakAreas(stateWithChunks(), 60.0, 2)

	// chunk_2 has too few attempts, chunk_1 is above threshold.
	require.Len(t, areas, 1)
	assert.Equal(t, "chunk_0", areas[0].ChunkID)
}

func TestStrongAreasFiltersAndSorts(t *testing.T) {
	state := stateWithChunks()
	state.ChunkPerformance["chunk_3"] = &models.ChunkStats{Correct: 8, Incorrect: 2, Attempts: 10}

	areas := StrongAreas(state, 80.0, 2)

	require.Len(t, areas, 2)
	assert.Equal(t, "chunk_1", areas[0].ChunkID)
	assert.Equal(t, "chunk_3", areas[1].ChunkID)
}

func TestSummary(t *testing.T) {
	summary := Summary(stateWithChunks())

	assert.Equal(t, 3, summary.TotalChunks)
	assert.Equal(t, 15, summary.TotalAttempts)
	assert.Equal(t, 11, summary.TotalCorrect)
	assert.Equal(t, 4, summary.TotalIncorrect)
	assert.Equal(t, 3, summary.ChunksWithData)
	assert.InDelta(t, 11.0/15.0*100, summary.OverallAccuracy, 1e-9)
}

func TestSummaryEmptyState(t *testing.T) {
	summary := Summary(DefaultLearningState("alice"))

	assert.Equal(t, 0, summary.TotalChunks)
	assert.InDelta(t, 0.0, summary.OverallAccuracy, 1e-9)
}
