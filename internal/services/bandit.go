package services

import (
	"sort"
	"time"

	"adaptlearn-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Recommendation is the outcome of one Thompson-sampling draw across modes.
type Recommendation struct {
	RecommendedMode string             `json:"recommendedMode"`
	Probabilities   map[string]float64 `json:"probabilities"`
	Confidence      float64            `json:"confidence"`
}

type ModeStats struct {
	SuccessRate   float64 `json:"successRate"`
	Alpha         float64 `json:"alpha"`
	Beta          float64 `json:"beta"`
	TotalFeedback float64 `json:"totalFeedback"`
}

// ApplyFeedback folds one feedback signal into the per-mode Beta estimator.
// Feedback is clamped to [0,1]; values above 0.5 count toward successes
// (alpha), the rest toward failures (beta). The outcome is appended to the
// mode history.
func ApplyFeedback(state *models.LearningState, mode string, feedback float64, sessionID string, at time.Time) error {
	if !isKnownMode(mode) {
		return ErrValidation("Unknown mode: " + mode)
	}
	NormalizeLearningState(state)
	feedback = clamp01(feedback)
	if feedback > 0.5 {
		state.ModeAlpha[mode] += feedback
	} else {
		state.ModeBeta[mode] += 1.0 - feedback
	}
	state.ModeHistory = append(state.ModeHistory, models.ModeEvent{
		Mode:      mode,
		Feedback:  feedback,
		Timestamp: at,
		SessionID: sessionID,
	})
	last := at
	state.LastUpdated = &last
	return nil
}

// RecordFeedback loads, updates and persists the state for one feedback
// signal.
func RecordFeedback(db *sqlx.DB, username, mode string, feedback float64, sessionID string) (models.LearningState, error) {
	state, err := GetLearningState(db, username)
	if err != nil {
		return models.LearningState{}, err
	}
	if err := ApplyFeedback(&state, mode, feedback, sessionID, time.Now().UTC()); err != nil {
		return models.LearningState{}, err
	}
	return UpsertLearningState(db, username, state)
}

// RecommendMode draws one sample per mode from Beta(alpha, beta) and picks
// the largest. Confidence is the gap between the two best samples. A nil
// source uses the global generator.
func RecommendMode(state models.LearningState, src rand.Source) Recommendation {
	NormalizeLearningState(&state)
	samples := map[string]float64{}
	probabilities := map[string]float64{}
	for _, mode := range models.Modes() {
		alpha := state.ModeAlpha[mode]
		beta := state.ModeBeta[mode]
		dist := distuv.Beta{Alpha: alpha, Beta: beta, Src: src}
		samples[mode] = dist.Rand()
		if alpha+beta > 0 {
			probabilities[mode] = alpha / (alpha + beta)
		} else {
			probabilities[mode] = 0.5
		}
	}
	best := ""
	for _, mode := range models.Modes() {
		if best == "" || samples[mode] > samples[best] {
			best = mode
		}
	}
	values := make([]float64, 0, len(samples))
	for _, sample := range samples {
		values = append(values, sample)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	confidence := 1.0
	if len(values) >= 2 {
		confidence = values[0] - values[1]
	}
	return Recommendation{
		RecommendedMode: best,
		Probabilities:   probabilities,
		Confidence:      clamp01(confidence),
	}
}

// Recommend reloads the state so the draw reflects the latest feedback.
func Recommend(db *sqlx.DB, username string) (Recommendation, error) {
	state, err := GetLearningState(db, username)
	if err != nil {
		return Recommendation{}, err
	}
	return RecommendMode(state, nil), nil
}

// ModeStatistics summarizes each estimator, discounting the Beta(1,1) prior
// from the feedback total.
func ModeStatistics(state models.LearningState) map[string]ModeStats {
	NormalizeLearningState(&state)
	stats := map[string]ModeStats{}
	for _, mode := range models.Modes() {
		alpha := state.ModeAlpha[mode]
		beta := state.ModeBeta[mode]
		total := alpha + beta
		rate := 0.5
		if total > 0 {
			rate = alpha / total
		}
		stats[mode] = ModeStats{
			SuccessRate:   rate,
			Alpha:         alpha,
			Beta:          beta,
			TotalFeedback: total - 2.0,
		}
	}
	return stats
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
