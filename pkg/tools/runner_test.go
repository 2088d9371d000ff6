package tools

import (
	"context"
	"sync"
	"testing"

	"deal-intake-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func resultByName(results []entity.ToolResult, name string) entity.ToolResult {
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	return entity.ToolResult{}
}

func TestRunAllInputs(t *testing.T) {
	in := Inputs{
		Financials: entity.DealFinancials{
			Revenue:     1_000_000,
			NOI:         150_000,
			LaborCost:   500_000,
			AskingPrice: 2_000_000,
		},
		Metrics:   entity.OperatingMetrics{Occupancy: 0.85},
		TotalBeds: 100,
	}

	results := NewCalculatorRunner().Run(context.Background(), in, nil)
	assert.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, entity.ToolSuccess, r.Status, r.Name)
	}

	assert.InDelta(t, 0.075, resultByName(results, "cap_rate").Value, 1e-9)
	assert.InDelta(t, 20_000, resultByName(results, "price_per_bed").Value, 1e-9)
	assert.InDelta(t, 0.15, resultByName(results, "noi_margin").Value, 1e-9)
	assert.InDelta(t, 0.5, resultByName(results, "labor_ratio").Value, 1e-9)
	assert.InDelta(t, 0.7225, resultByName(results, "breakeven_occupancy").Value, 1e-4)
}

func TestRunMissingInputsSkips(t *testing.T) {
	results := NewCalculatorRunner().Run(context.Background(), Inputs{}, nil)
	assert.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, entity.ToolSkipped, r.Status, r.Name)
		assert.NotEmpty(t, r.Reason)
	}
}

func TestRunDeliversResultsViaCallback(t *testing.T) {
	var (
		mu    sync.Mutex
		names []string
	)
	onResult := func(r entity.ToolResult) {
		mu.Lock()
		names = append(names, r.Name)
		mu.Unlock()
	}

	NewCalculatorRunner().Run(context.Background(), Inputs{}, onResult)
	assert.ElementsMatch(t, []string{"cap_rate", "price_per_bed", "noi_margin", "labor_ratio", "breakeven_occupancy"}, names)
}
