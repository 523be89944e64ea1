package domain

import "time"

// Idempotency records the result of a previously processed coaching message
// submission, keyed by (user_id, project_id, key). It enables safe retries
// of the POST coaching-message endpoint: a replayed request returns the
// originally stored message without appending a duplicate to the session.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_project_key,priority:1"`
	ProjectID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_project_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_project_key,priority:3"`
	MessageID string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
