package services

import (
	"sort"
	"time"

	"adaptlearn-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

const (
	maxQuestionsPerChunk = 10
	maxQuestionLength    = 200
)

// ChunkReport is the derived view of one chunk's answer record.
type ChunkReport struct {
	ChunkID         string     `json:"chunkId"`
	SourceReference string     `json:"sourceReference"`
	Correct         int        `json:"correct"`
	Incorrect       int        `json:"incorrect"`
	Attempts        int        `json:"attempts"`
	Accuracy        float64    `json:"accuracy"`
	LastAttempt     *time.Time `json:"lastAttempt,omitempty"`
}

type PerformanceSummary struct {
	TotalChunks     int     `json:"totalChunks"`
	TotalAttempts   int     `json:"totalAttempts"`
	TotalCorrect    int     `json:"totalCorrect"`
	TotalIncorrect  int     `json:"totalIncorrect"`
	OverallAccuracy float64 `json:"overallAccuracy"`
	ChunksWithData  int     `json:"chunksWithData"`
}

// RecordAnswer counts one answered question against a chunk. The chunk keeps
// a short trailing log of question texts for review.
func RecordAnswer(db *sqlx.DB, username, chunkID, sourceReference string, correct bool, questionText string) (models.LearningState, error) {
	key := chunkID
	if key == "" {
		key = sourceReference
	}
	if key == "" {
		return models.LearningState{}, ErrValidation("A chunk id or source reference is required")
	}
	state, err := GetLearningState(db, username)
	if err != nil {
		return models.LearningState{}, err
	}
	if state.ChunkPerformance == nil {
		state.ChunkPerformance = models.ChunkPerformance{}
	}
	stats, ok := state.ChunkPerformance[key]
	if !ok {
		stats = &models.ChunkStats{SourceReference: sourceReference}
		state.ChunkPerformance[key] = stats
	}
	now := time.Now().UTC()
	stats.Attempts++
	if correct {
		stats.Correct++
	} else {
		stats.Incorrect++
	}
	stats.LastAttempt = &now
	if questionText != "" {
		if len(questionText) > maxQuestionLength {
			questionText = questionText[:maxQuestionLength]
		}
		stats.Questions = append(stats.Questions, models.QuestionRecord{
			Question:  questionText,
			Correct:   correct,
			Timestamp: now,
		})
		if len(stats.Questions) > maxQuestionsPerChunk {
			stats.Questions = stats.Questions[len(stats.Questions)-maxQuestionsPerChunk:]
		}
	}
	return UpsertLearningState(db, username, state)
}

// PerformanceReport derives accuracy for every tracked chunk.
func PerformanceReport(state models.LearningState) map[string]ChunkReport {
	reports := map[string]ChunkReport{}
	for chunkID, stats := range state.ChunkPerformance {
		if stats == nil {
			continue
		}
		reports[chunkID] = ChunkReport{
			ChunkID:         chunkID,
			SourceReference: stats.SourceReference,
			Correct:         stats.Correct,
			Incorrect:       stats.Incorrect,
			Attempts:        stats.Attempts,
			Accuracy:        accuracy(stats.Correct, stats.Attempts),
			LastAttempt:     stats.LastAttempt,
		}
	}
	return reports
}

// WeakAreas lists chunks below the accuracy threshold, worst first. Chunks
// with fewer than minAttempts attempts are ignored.
func WeakAreas(state models.LearningState, threshold float64, minAttempts int) []ChunkReport {
	areas := []ChunkReport{}
	for _, report := range PerformanceReport(state) {
		if report.Attempts >= minAttempts && report.Accuracy < threshold {
			areas = append(areas, report)
		}
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Accuracy != areas[j].Accuracy {
			return areas[i].Accuracy < areas[j].Accuracy
		}
		return areas[i].ChunkID < areas[j].ChunkID
	})
	return areas
}

// StrongAreas lists chunks at or above the accuracy threshold, best first.
func StrongAreas(state models.LearningState, threshold float64, minAttempts int) []ChunkReport {
	areas := []ChunkReport{}
	for _, report := range PerformanceReport(state) {
		if report.Attempts >= minAttempts && report.Accuracy >= threshold {
			areas = append(areas, report)
		}
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Accuracy != areas[j].Accuracy {
			return areas[i].Accuracy > areas[j].Accuracy
		}
		return areas[i].ChunkID < areas[j].ChunkID
	})
	return areas
}

// Summary aggregates answer performance across all chunks.
func Summary(state models.LearningState) PerformanceSummary {
	summary := PerformanceSummary{}
	for _, stats := range state.ChunkPerformance {
		if stats == nil {
			continue
		}
		summary.TotalChunks++
		summary.TotalAttempts += stats.Attempts
		summary.TotalCorrect += stats.Correct
		summary.TotalIncorrect += stats.Incorrect
		if stats.Attempts > 0 {
			summary.ChunksWithData++
		}
	}
	summary.OverallAccuracy = accuracy(summary.TotalCorrect, summary.TotalAttempts)
	return summary
}

func accuracy(correct, attempts int) float64 {
	if attempts <= 0 {
		return 0
	}
	return float64(correct) / float64(attempts) * 100
}
