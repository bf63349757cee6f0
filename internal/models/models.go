package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Learning modes the bandit chooses between. The mode-weight documents are
// keyed by these names only.
const (
	ModeQuiz        = "quiz"
	ModeFlashcard   = "flashcard"
	ModeInteractive = "interactive"
)

func Modes() []string {
	return []string{ModeQuiz, ModeFlashcard, ModeInteractive}
}

type Account struct {
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
}

// ModeWeights maps a mode name to one shape parameter of its Beta estimator.
type ModeWeights map[string]float64

// ModeEvent is one recorded mode-selection outcome.
type ModeEvent struct {
	Mode      string    `json:"mode" validate:"required,oneof=quiz flashcard interactive"`
	Feedback  float64   `json:"feedback" validate:"gte=0,lte=1"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
}

type ModeHistory []ModeEvent

// QuestionRecord keeps a short trace of answered questions per chunk.
type QuestionRecord struct {
	Question  string    `json:"question"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}

// ChunkStats tracks answer performance for one content chunk.
type ChunkStats struct {
	Correct         int              `json:"correct" validate:"gte=0"`
	Incorrect       int              `json:"incorrect" validate:"gte=0"`
	Attempts        int              `json:"attempts" validate:"gte=0"`
	LastAttempt     *time.Time       `json:"last_attempt,omitempty"`
	SourceReference string           `json:"source_reference,omitempty"`
	Questions       []QuestionRecord `json:"questions,omitempty"`
}

type ChunkPerformance map[string]*ChunkStats

// FileMapping maps internal file identifiers to human-readable names.
type FileMapping map[string]string

type LearningState struct {
	Username          string           `db:"username" json:"username"`
	ModeAlpha         ModeWeights      `db:"mode_alpha" json:"mode_alpha" validate:"dive,keys,oneof=quiz flashcard interactive,endkeys,gt=0"`
	ModeBeta          ModeWeights      `db:"mode_beta" json:"mode_beta" validate:"dive,keys,oneof=quiz flashcard interactive,endkeys,gt=0"`
	ModeHistory       ModeHistory      `db:"mode_history" json:"mode_history" validate:"dive"`
	ChunkPerformance  ChunkPerformance `db:"chunk_performance" json:"chunk_performance" validate:"dive"`
	FileMapping       FileMapping      `db:"file_mapping" json:"file_mapping"`
	SurveyCompleted   bool             `db:"survey_completed" json:"survey_completed"`
	InitialPreference *string          `db:"initial_preference" json:"initial_preference,omitempty"`
	TotalSessions     int              `db:"total_sessions" json:"total_sessions" validate:"gte=0"`
	LastUpdated       *time.Time       `db:"last_updated" json:"last_updated,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

func (m ModeWeights) Value() (driver.Value, error) {
	if m == nil {
		m = ModeWeights{}
	}
	return json.Marshal(m)
}

func (m *ModeWeights) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func (h ModeHistory) Value() (driver.Value, error) {
	if h == nil {
		h = ModeHistory{}
	}
	return json.Marshal(h)
}

func (h *ModeHistory) Scan(src interface{}) error {
	return scanJSON(src, h)
}

func (p ChunkPerformance) Value() (driver.Value, error) {
	if p == nil {
		p = ChunkPerformance{}
	}
	return json.Marshal(p)
}

func (p *ChunkPerformance) Scan(src interface{}) error {
	return scanJSON(src, p)
}

func (f FileMapping) Value() (driver.Value, error) {
	if f == nil {
		f = FileMapping{}
	}
	return json.Marshal(f)
}

func (f *FileMapping) Scan(src interface{}) error {
	return scanJSON(src, f)
}

func scanJSON(src, dst interface{}) error {
	switch value := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(value, dst)
	case string:
		return json.Unmarshal([]byte(value), dst)
	default:
		return errors.New("unsupported type for JSONB column")
	}
}
