package model

import (
	"time"

	"github.com/google/uuid"
)

type Facility struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DealId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(255);not null"`
	CCN          string    `gorm:"type:varchar(10);column:ccn;index"`
	City         string    `gorm:"type:varchar(128)"`
	State        string    `gorm:"type:varchar(2)"`
	Beds         int       `gorm:"not null;default:0"`
	CMSRating    int       `gorm:"column:cms_rating;not null;default:0"`
	SpecialFocus bool      `gorm:"not null;default:false"`
	Confidence   int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Facility) TableName() string {
	return "facilities"
}
