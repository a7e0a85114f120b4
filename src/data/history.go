package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aletheia-labs/aletheia/src/verify"
)

// VerdictRecord stores one finished classification.
type VerdictRecord struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	ClaimText        string    `gorm:"column:claim_text;type:text"`
	IsMisinformation bool      `gorm:"column:is_misinformation"`
	Confidence       float64   `gorm:"column:confidence"`
	IsNews           bool      `gorm:"column:is_news"`
	Summary          string    `gorm:"column:summary;type:text"`
	Evidence         string    `gorm:"column:evidence;type:text"`        // JSON array
	SourcesChecked   string    `gorm:"column:sources_checked;type:text"` // JSON array
	Recommendation   string    `gorm:"column:recommendation;type:text"`
	Provider         string    `gorm:"column:provider;size:64"`
	AIModel          string    `gorm:"column:ai_model;size:128"`
	CreatedAt        time.Time `gorm:"index:idx_verdicts_created"`
}

// TableName implements gorm's tabler interface.
func (VerdictRecord) TableName() string {
	return "verdicts"
}

// HistoryStore persists verdicts for later review. Nil-safe: a nil store
// rejects writes with an error instead of panicking.
type HistoryStore struct {
	db       *gorm.DB
	provider string
	model    string
}

// NewHistoryStore returns a history store attributing rows to the given
// provider and model.
func NewHistoryStore(db *gorm.DB, provider, model string) *HistoryStore {
	return &HistoryStore{db: db, provider: provider, model: model}
}

// Save persists one verdict.
func (h *HistoryStore) Save(ctx context.Context, claimText string, v verify.Verdict) error {
	if h == nil || h.db == nil {
		return fmt.Errorf("history store not initialized")
	}

	evidenceJSON, _ := json.Marshal(v.Evidence)
	sourcesJSON, _ := json.Marshal(v.SourcesChecked)

	record := VerdictRecord{
		ClaimText:        claimText,
		IsMisinformation: v.IsMisinformation,
		Confidence:       v.Confidence,
		IsNews:           v.IsNews,
		Summary:          v.Summary,
		Evidence:         string(evidenceJSON),
		SourcesChecked:   string(sourcesJSON),
		Recommendation:   v.Recommendation,
		Provider:         h.provider,
		AIModel:          h.model,
		CreatedAt:        time.Now(),
	}

	return h.db.WithContext(ctx).Create(&record).Error
}

// Recent returns the newest stored verdicts, most recent first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]VerdictRecord, error) {
	if h == nil || h.db == nil {
		return nil, fmt.Errorf("history store not initialized")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var records []VerdictRecord
	err := h.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
