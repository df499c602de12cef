package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
	"github.com/registrar-labs/courserec/internal/logger"
)

// averageDecimals fixes the precision of reported demand averages.
const averageDecimals = 1e3

// DemandAggregator joins a recommendation set against enrollment-demand
// records and computes the report's listings and summary statistics.
// Each call works in its own scratch partition, keyed by a fresh request
// ID, so concurrent requests never interfere.
type DemandAggregator struct {
	scratch driven.ScratchStore
}

// NewDemandAggregator wires the scratch store.
func NewDemandAggregator(scratch driven.ScratchStore) *DemandAggregator {
	return &DemandAggregator{scratch: scratch}
}

// Summarize left-joins the recommended courses with demand data and
// computes both ranked listings, the overall and per-department averages,
// and the high/low demand partitions. Courses without a demand row appear
// in listings with nil demand but are excluded from every numeric
// aggregate and from both partitions.
func (a *DemandAggregator) Summarize(ctx context.Context, recs []domain.Recommendation) (*domain.DemandReport, error) {
	requestID := uuid.New().String()
	logger.Debug("demand summary for %d recommendations (request %s)", len(recs), requestID)

	if err := a.scratch.WriteRecommendations(ctx, requestID, recs); err != nil {
		return nil, fmt.Errorf("write scratch set: %w", err)
	}
	defer func() {
		if err := a.scratch.Clear(ctx, requestID); err != nil {
			logger.Warn("clear scratch set %s: %v", requestID, err)
		}
	}()

	bySim, err := a.scratch.RowsBySimilarity(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("rows by similarity: %w", err)
	}

	byDemand, err := a.scratch.RowsByDemand(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("rows by demand: %w", err)
	}

	overall, err := a.scratch.OverallAverage(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("overall average: %w", err)
	}
	if overall != nil {
		rounded := math.Round(*overall*averageDecimals) / averageDecimals
		overall = &rounded
	}

	perDept, err := a.scratch.DepartmentDemand(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("department demand: %w", err)
	}
	for i := range perDept {
		if perDept[i].Average == nil {
			continue
		}
		rounded := math.Round(*perDept[i].Average*averageDecimals) / averageDecimals
		perDept[i].Average = &rounded
	}

	high, err := a.scratch.AboveAverage(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("above-average partition: %w", err)
	}

	low, err := a.scratch.BelowAverage(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("below-average partition: %w", err)
	}

	return &domain.DemandReport{
		BySimilarity: bySim,
		ByDemand:     byDemand,
		Summary: domain.DemandSummary{
			OverallAverage: overall,
			PerDepartment:  perDept,
			HighDemand:     high,
			LowDemand:      low,
		},
	}, nil
}
