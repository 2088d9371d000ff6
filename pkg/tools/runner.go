// Package tools runs the financial calculators of the Tools phase. Each
// tool is isolated: a failure or missing input produces a failed/skipped
// result for that tool only and never aborts the batch.
package tools

import (
	"context"
	"fmt"
	"sync"

	"deal-intake-be/internal/entity"
)

// Inputs are the aggregated figures the calculators operate on.
type Inputs struct {
	Financials entity.DealFinancials
	Metrics    entity.OperatingMetrics
	TotalBeds  int
}

// Runner executes the calculator set. Results are delivered through
// onResult in completion order, then returned as a batch.
type Runner interface {
	Run(ctx context.Context, in Inputs, onResult func(entity.ToolResult)) []entity.ToolResult
}

type toolFunc func(in Inputs) (value float64, unit, detail string, err error)

type namedTool struct {
	name string
	fn   toolFunc
}

// CalculatorRunner carries the fixed calculator table.
type CalculatorRunner struct {
	tools []namedTool
}

var _ Runner = &CalculatorRunner{}

func NewCalculatorRunner() *CalculatorRunner {
	return &CalculatorRunner{
		tools: []namedTool{
			{"cap_rate", capRate},
			{"price_per_bed", pricePerBed},
			{"noi_margin", noiMargin},
			{"labor_ratio", laborRatio},
			{"breakeven_occupancy", breakevenOccupancy},
		},
	}
}

// Run dispatches all tools concurrently and waits for the batch. Panics in
// a tool are confined to that tool's result.
func (r *CalculatorRunner) Run(ctx context.Context, in Inputs, onResult func(entity.ToolResult)) []entity.ToolResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []entity.ToolResult
	)

	for _, t := range r.tools {
		wg.Add(1)
		go func(t namedTool) {
			defer wg.Done()
			res := runOne(t, in)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()

			if onResult != nil {
				onResult(res)
			}
		}(t)
	}

	wg.Wait()
	return results
}

func runOne(t namedTool, in Inputs) (res entity.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			res = entity.ToolResult{
				Name:   t.name,
				Status: entity.ToolFailed,
				Reason: fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	value, unit, detail, err := t.fn(in)
	if err != nil {
		status := entity.ToolSkipped
		if _, missing := err.(missingInputError); !missing {
			status = entity.ToolFailed
		}
		return entity.ToolResult{Name: t.name, Status: status, Reason: err.Error()}
	}
	return entity.ToolResult{
		Name:   t.name,
		Status: entity.ToolSuccess,
		Value:  value,
		Unit:   unit,
		Detail: detail,
	}
}

type missingInputError string

func (e missingInputError) Error() string { return string(e) }

func capRate(in Inputs) (float64, string, string, error) {
	if in.Financials.NOI <= 0 || in.Financials.AskingPrice <= 0 {
		return 0, "", "", missingInputError("requires NOI and asking price")
	}
	rate := in.Financials.NOI / in.Financials.AskingPrice
	return rate, "ratio", fmt.Sprintf("NOI %.0f over asking price %.0f", in.Financials.NOI, in.Financials.AskingPrice), nil
}

func pricePerBed(in Inputs) (float64, string, string, error) {
	if in.Financials.AskingPrice <= 0 || in.TotalBeds <= 0 {
		return 0, "", "", missingInputError("requires asking price and bed count")
	}
	return in.Financials.AskingPrice / float64(in.TotalBeds), "usd_per_bed", fmt.Sprintf("across %d beds", in.TotalBeds), nil
}

func noiMargin(in Inputs) (float64, string, string, error) {
	margin, ok := in.Financials.NOIMargin()
	if !ok {
		return 0, "", "", missingInputError("requires revenue")
	}
	return margin, "ratio", "", nil
}

func laborRatio(in Inputs) (float64, string, string, error) {
	if in.Financials.Revenue <= 0 || in.Financials.LaborCost <= 0 {
		return 0, "", "", missingInputError("requires revenue and labor cost")
	}
	return in.Financials.LaborCost / in.Financials.Revenue, "ratio", "", nil
}

// breakevenOccupancy estimates the occupancy at which NOI reaches zero,
// assuming revenue scales with occupancy and costs are fixed.
func breakevenOccupancy(in Inputs) (float64, string, string, error) {
	if in.Financials.Revenue <= 0 || in.Metrics.Occupancy <= 0 {
		return 0, "", "", missingInputError("requires revenue and occupancy")
	}
	costs := in.Financials.Revenue - in.Financials.NOI
	if costs <= 0 {
		return 0, "", "", fmt.Errorf("implausible cost base: revenue %.0f, NOI %.0f", in.Financials.Revenue, in.Financials.NOI)
	}
	revenuePerPoint := in.Financials.Revenue / in.Metrics.Occupancy
	return costs / revenuePerPoint, "ratio", "occupancy at which NOI reaches zero", nil
}
