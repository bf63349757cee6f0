package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeWeightsScanValueRoundTrip(t *testing.T) {
	weights := ModeWeights{"quiz": 2.5, "flashcard": 1.0, "interactive": 1.0}

	value, err := weights.Value()
	require.NoError(t, err)

	scanned := ModeWeights{}
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, weights, scanned)
}

func TestModeWeightsScanString(t *testing.T) {
	scanned := ModeWeights{}
	require.NoError(t, scanned.Scan(`{"quiz": 1.5}`))
	assert.Equal(t, 1.5, scanned["quiz"])
}

func TestModeWeightsScanRejectsMalformedJSON(t *testing.T) {
	scanned := ModeWeights{}
	assert.Error(t, scanned.Scan([]byte(`{"quiz": `)))
}

func TestModeWeightsScanRejectsWrongShape(t *testing.T) {
	scanned := ModeWeights{}
	assert.Error(t, scanned.Scan([]byte(`[1, 2, 3]`)))
}

func TestModeWeightsScanNilIsNoop(t *testing.T) {
	scanned := ModeWeights{}
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}

func TestNilDocumentsMarshalAsEmpty(t *testing.T) {
	var weights ModeWeights
	value, err := weights.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(value.([]byte)))

	var history ModeHistory
	value, err = history.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(value.([]byte)))

	var perf ChunkPerformance
	value, err = perf.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(value.([]byte)))

	var files FileMapping
	value, err = files.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(value.([]byte)))
}

func TestModeHistoryRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	history := ModeHistory{{Mode: ModeQuiz, Feedback: 0.75, Timestamp: at, SessionID: "s1"}}

	value, err := history.Value()
	require.NoError(t, err)

	scanned := ModeHistory{}
	require.NoError(t, scanned.Scan(value))
	require.Len(t, scanned, 1)
	assert.Equal(t, ModeQuiz, scanned[0].Mode)
	assert.Equal(t, 0.75, scanned[0].Feedback)
	assert.True(t, scanned[0].Timestamp.Equal(at))
	assert.Equal(t, "s1", scanned[0].SessionID)
}

func TestChunkPerformanceRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	perf := ChunkPerformance{
		"chunk_1": {
			Correct:         3,
			Incorrect:       1,
			Attempts:        4,
			LastAttempt:     &at,
			SourceReference: "Chunk 1 - Basics",
			Questions:       []QuestionRecord{{Question: "What is entropy?", Correct: true, Timestamp: at}},
		},
	}

	value, err := perf.Value()
	require.NoError(t, err)

	scanned := ChunkPerformance{}
	require.NoError(t, scanned.Scan(value))
	require.Contains(t, scanned, "chunk_1")
	assert.Equal(t, 4, scanned["chunk_1"].Attempts)
	require.Len(t, scanned["chunk_1"].Questions, 1)
	assert.Equal(t, "What is entropy?", scanned["chunk_1"].Questions[0].Question)
}

func TestModes(t *testing.T) {
	assert.Equal(t, []string{"quiz", "flashcard", "interactive"}, Modes())
}
