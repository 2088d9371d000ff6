package service

import (
	"context"
	"time"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/repository/unitofwork"
	"deal-intake-be/pkg/pipeline/rules"

	"github.com/google/uuid"
)

// dealWriterService turns the session's working deal into a durable record.
// Called once per run during Assemble.
type dealWriterService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDealWriterService(uowFactory unitofwork.RepositoryFactory) *dealWriterService {
	return &dealWriterService{
		uowFactory: uowFactory,
	}
}

func (s *dealWriterService) CreateDeal(ctx context.Context, session *entity.IntakeSession) (uuid.UUID, error) {
	deal := session.Deal

	name := deal.SuggestedName
	if name == "" {
		name = "Unnamed Deal"
	}

	facilities := make([]entity.FacilityRecord, len(deal.Facilities))
	for i, f := range deal.Facilities {
		facilities[i] = entity.FacilityRecord{
			Id:           uuid.New(),
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

	record := &entity.DealRecord{
		Id:                uuid.New(),
		Name:              name,
		AssetType:         deal.AssetType,
		Revenue:           deal.Financials.Revenue,
		NOI:               deal.Financials.NOI,
		LaborCost:         deal.Financials.LaborCost,
		AskingPrice:       deal.Financials.AskingPrice,
		Occupancy:         deal.Metrics.Occupancy,
		PayerMix:          deal.Metrics.PayerMix,
		CompletenessScore: session.CompletenessScore,
		ConfidenceScore:   session.ConfidenceScore,
		Recommendation:    string(rules.Recommend(session.RedFlags, session.ConfidenceScore)),
		SessionId:         session.Id,
		Facilities:        facilities,
		CreatedAt:         time.Now(),
	}
	for i := range record.Facilities {
		record.Facilities[i].DealId = record.Id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, err
	}
	defer uow.Rollback()

	if err := uow.DealRepository().Create(ctx, record); err != nil {
		return uuid.Nil, err
	}
	if err := uow.Commit(); err != nil {
		return uuid.Nil, err
	}

	return record.Id, nil
}
