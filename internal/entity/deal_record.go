package entity

import (
	"time"

	"github.com/google/uuid"
)

// DealRecord is the persisted form of an assembled deal. It is written once
// the pipeline has merged facilities and financials; the live session keeps
// the richer working state.
type DealRecord struct {
	Id                uuid.UUID
	Name              string
	AssetType         string
	Revenue           float64
	NOI               float64
	LaborCost         float64
	AskingPrice       float64
	Occupancy         float64
	PayerMix          map[string]float64
	CompletenessScore int
	ConfidenceScore   int
	Recommendation    string
	SessionId         uuid.UUID
	Facilities        []FacilityRecord
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

type FacilityRecord struct {
	Id           uuid.UUID
	DealId       uuid.UUID
	Name         string
	CCN          string
	City         string
	State        string
	Beds         int
	CMSRating    int
	SpecialFocus bool
	Confidence   int
}

// SessionSnapshotRecord is a durable copy of a session's progress, upserted
// after every phase so a restarted process can report historical runs.
type SessionSnapshotRecord struct {
	SessionId    uuid.UUID
	Status       string
	CurrentPhase string
	Payload      []byte
	UpdatedAt    time.Time
}
