package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionSnapshot keys on the session id, one row per intake run.
type SessionSnapshot struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Status       string         `gorm:"type:varchar(32);not null"`
	CurrentPhase string         `gorm:"type:varchar(16)"`
	Payload      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (SessionSnapshot) TableName() string {
	return "session_snapshots"
}
