package services

import (
	"database/sql"
	"errors"
	"math"
	"time"

	"adaptlearn-backend-go/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

var validate = validator.New()

// DefaultLearningState is the documented zero state: uniform Beta(1,1) priors
// for every mode and empty documents.
func DefaultLearningState(username string) models.LearningState {
	alpha := models.ModeWeights{}
	beta := models.ModeWeights{}
	for _, mode := range models.Modes() {
		alpha[mode] = 1.0
		beta[mode] = 1.0
	}
	return models.LearningState{
		Username:         username,
		ModeAlpha:        alpha,
		ModeBeta:         beta,
		ModeHistory:      models.ModeHistory{},
		ChunkPerformance: models.ChunkPerformance{},
		FileMapping:      models.FileMapping{},
	}
}

// NormalizeLearningState backfills missing modes with the 1.0 prior and
// replaces nil documents with empties, mirroring what the loader does for
// rows written by older versions.
func NormalizeLearningState(state *models.LearningState) {
	if state.ModeAlpha == nil {
		state.ModeAlpha = models.ModeWeights{}
	}
	if state.ModeBeta == nil {
		state.ModeBeta = models.ModeWeights{}
	}
	for _, mode := range models.Modes() {
		if _, ok := state.ModeAlpha[mode]; !ok {
			state.ModeAlpha[mode] = 1.0
		}
		if _, ok := state.ModeBeta[mode]; !ok {
			state.ModeBeta[mode] = 1.0
		}
	}
	if state.ModeHistory == nil {
		state.ModeHistory = models.ModeHistory{}
	}
	if state.ChunkPerformance == nil {
		state.ChunkPerformance = models.ChunkPerformance{}
	}
	if state.FileMapping == nil {
		state.FileMapping = models.FileMapping{}
	}
}

// ValidateLearningState rejects malformed documents before anything touches
// the database.
func ValidateLearningState(state *models.LearningState) error {
	if err := validate.Struct(state); err != nil {
		return ErrValidation("Malformed learning state: " + err.Error())
	}
	for _, weights := range []models.ModeWeights{state.ModeAlpha, state.ModeBeta} {
		for mode, weight := range weights {
			if math.IsNaN(weight) || math.IsInf(weight, 0) {
				return ErrValidation("Mode weight for " + mode + " is not finite")
			}
		}
	}
	if state.InitialPreference != nil && *state.InitialPreference != "" {
		if !isKnownMode(*state.InitialPreference) {
			return ErrValidation("Unknown initial preference: " + *state.InitialPreference)
		}
	}
	return nil
}

func isKnownMode(mode string) bool {
	for _, known := range models.Modes() {
		if known == mode {
			return true
		}
	}
	return false
}

// GetLearningState returns the stored row, or the default zero state when the
// user has never persisted one.
func GetLearningState(db *sqlx.DB, username string) (models.LearningState, error) {
	state := models.LearningState{}
	err := db.Get(&state, `
SELECT username, mode_alpha, mode_beta, mode_history, chunk_performance, file_mapping,
       survey_completed, initial_preference, total_sessions, last_updated, created_at, updated_at
FROM rl_state
WHERE username = $1
`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultLearningState(username), nil
	}
	if err != nil {
		return models.LearningState{}, dbError(err, "get learning state")
	}
	NormalizeLearningState(&state)
	return state, nil
}

func LearningStateExists(db *sqlx.DB, username string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM rl_state WHERE username = $1)`, username)
	if err != nil {
		return false, dbError(err, "check learning state")
	}
	return exists, nil
}

// UpsertLearningState replaces the full row for username. Writes are
// last-writer-wins; document fields are never merged.
func UpsertLearningState(db *sqlx.DB, username string, state models.LearningState) (models.LearningState, error) {
	state.Username = username
	NormalizeLearningState(&state)
	if err := ValidateLearningState(&state); err != nil {
		return models.LearningState{}, err
	}
	now := time.Now().UTC()
	state.UpdatedAt = now
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	_, err := db.Exec(`
INSERT INTO rl_state (
  username, mode_alpha, mode_beta, mode_history, chunk_performance, file_mapping,
  survey_completed, initial_preference, total_sessions, last_updated, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (username) DO UPDATE SET
  mode_alpha = EXCLUDED.mode_alpha,
  mode_beta = EXCLUDED.mode_beta,
  mode_history = EXCLUDED.mode_history,
  chunk_performance = EXCLUDED.chunk_performance,
  file_mapping = EXCLUDED.file_mapping,
  survey_completed = EXCLUDED.survey_completed,
  initial_preference = EXCLUDED.initial_preference,
  total_sessions = EXCLUDED.total_sessions,
  last_updated = EXCLUDED.last_updated,
  updated_at = EXCLUDED.updated_at
`, state.Username, state.ModeAlpha, state.ModeBeta, state.ModeHistory, state.ChunkPerformance,
		state.FileMapping, state.SurveyCompleted, state.InitialPreference, state.TotalSessions,
		state.LastUpdated, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		return models.LearningState{}, dbError(err, "upsert learning state")
	}
	return state, nil
}

// ResetLearningState restores the default zero state for username.
func ResetLearningState(db *sqlx.DB, username string) (models.LearningState, error) {
	return UpsertLearningState(db, username, DefaultLearningState(username))
}

// StartSession bumps the session counter. The counter only ever grows.
func StartSession(db *sqlx.DB, username string) (models.LearningState, error) {
	state, err := GetLearningState(db, username)
	if err != nil {
		return models.LearningState{}, err
	}
	state.TotalSessions++
	now := time.Now().UTC()
	state.LastUpdated = &now
	return UpsertLearningState(db, username, state)
}

// CompleteSurvey records the one-time mode preference survey. The completed
// flag never transitions back to false and the stated preference is not
// overwritten by repeat submissions.
func CompleteSurvey(db *sqlx.DB, username string, preference *string) (models.LearningState, error) {
	state, err := GetLearningState(db, username)
	if err != nil {
		return models.LearningState{}, err
	}
	if !state.SurveyCompleted {
		state.SurveyCompleted = true
		state.InitialPreference = preference
	}
	now := time.Now().UTC()
	state.LastUpdated = &now
	return UpsertLearningState(db, username, state)
}

// MapFile records a file-id to display-name mapping in the state document.
func MapFile(db *sqlx.DB, username, fileID, filename string) (models.LearningState, error) {
	state, err := GetLearningState(db, username)
	if err != nil {
		return models.LearningState{}, err
	}
	if state.FileMapping == nil {
		state.FileMapping = models.FileMapping{}
	}
	state.FileMapping[fileID] = filename
	return UpsertLearningState(db, username, state)
}
