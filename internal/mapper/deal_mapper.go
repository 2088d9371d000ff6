package mapper

import (
	"encoding/json"
	"time"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/model"

	"gorm.io/datatypes"
)

type DealMapper struct{}

func NewDealMapper() *DealMapper {
	return &DealMapper{}
}

func (m *DealMapper) ToEntity(d *model.Deal) *entity.DealRecord {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	var payerMix map[string]float64
	if len(d.PayerMix) > 0 {
		_ = json.Unmarshal(d.PayerMix, &payerMix)
	}

	facilities := make([]entity.FacilityRecord, len(d.Facilities))
	for i, f := range d.Facilities {
		facilities[i] = entity.FacilityRecord{
			Id:           f.Id,
			DealId:       f.DealId,
			Name:         f.Name,
			CCN:          f.CCN,
			City:         f.City,
			State:        f.State,
			Beds:         f.Beds,
			CMSRating:    f.CMSRating,
			SpecialFocus: f.SpecialFocus,
			Confidence:   f.Confidence,
		}
	}

	return &entity.DealRecord{
		Id:                d.Id,
		Name:              d.Name,
		AssetType:         d.AssetType,
		Revenue:           d.Revenue,
		NOI:               d.NOI,
		LaborCost:         d.LaborCost,
		AskingPrice:       d.AskingPrice,
		Occupancy:         d.Occupancy,
		PayerMix:          payerMix,
		CompletenessScore: d.CompletenessScore,
		ConfidenceScore:   d.ConfidenceScore,
		Recommendation:    d.Recommendation,
		SessionId:         d.SessionId,
		Facilities:        facilities,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *DealMapper) ToModel(d *entity.DealRecord) *model.Deal {
	if d == nil {
		return nil
	}

	var payerMix datatypes.JSON
	if len(d.PayerMix) > 0 {
		b, err := json.Marshal(d.PayerMix)
		if err == nil {
			payerMix = b
		}
	}

	facilities := make([]model.Facility, len(d.Facilities))
	for i, f := range d.Facilities {
		facilities[i] = model.Facility{
			Id:           f.Id,
			DealId:       f.DealId,
			Name:         f.Name,
			CCN:          f.CCN,
			City:         f.City,
			State:        f.State,
			Beds:         f.Beds,
			CMSRating:    f.CMSRating,
			SpecialFocus: f.SpecialFocus,
			Confidence:   f.Confidence,
		}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Deal{
		Id:                d.Id,
		Name:              d.Name,
		AssetType:         d.AssetType,
		Revenue:           d.Revenue,
		NOI:               d.NOI,
		LaborCost:         d.LaborCost,
		AskingPrice:       d.AskingPrice,
		Occupancy:         d.Occupancy,
		PayerMix:          payerMix,
		CompletenessScore: d.CompletenessScore,
		ConfidenceScore:   d.ConfidenceScore,
		Recommendation:    d.Recommendation,
		SessionId:         d.SessionId,
		Facilities:        facilities,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *DealMapper) ToEntities(deals []*model.Deal) []*entity.DealRecord {
	entities := make([]*entity.DealRecord, len(deals))
	for i, d := range deals {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
