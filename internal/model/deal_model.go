package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Deal struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string         `gorm:"type:varchar(255);not null"`
	AssetType         string         `gorm:"type:varchar(64)"`
	Revenue           float64        `gorm:"type:numeric"`
	NOI               float64        `gorm:"type:numeric;column:noi"`
	LaborCost         float64        `gorm:"type:numeric"`
	AskingPrice       float64        `gorm:"type:numeric"`
	Occupancy         float64        `gorm:"type:numeric"`
	PayerMix          datatypes.JSON `gorm:"type:jsonb"`
	CompletenessScore int            `gorm:"not null;default:0"`
	ConfidenceScore   int            `gorm:"not null;default:0"`
	Recommendation    string         `gorm:"type:varchar(16)"`
	SessionId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Facilities        []Facility     `gorm:"foreignKey:DealId"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
}

func (Deal) TableName() string {
	return "deals"
}
