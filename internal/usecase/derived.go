package usecase

import (
	"math"
	"time"

	"github.com/gildedline/atelier/internal/domain/model"
)

// ComputeDerivedFields calculates the read-time projections of a
// request snapshot. Pure: every read recomputes from the snapshot and
// the supplied clock, so derived values can never drift from storage.
func ComputeDerivedFields(req *model.DesignRequest, now time.Time) model.DerivedFields {
	return model.DerivedFields{
		ProjectNumber:      req.ProjectNumber(),
		CustomerName:       req.Customer.FullName(),
		DaysOpen:           daysOpen(req.CreatedAt, now),
		ProgressPercentage: progressPercentage(req),
		IsOverdue:          isOverdue(req, now),
		CurrentQuote:       req.CurrentQuote(),
	}
}

// daysOpen reports whole elapsed days, rounding partial days past the
// first up. A request stays at 0 for its first 24 hours.
func daysOpen(createdAt, now time.Time) int {
	elapsed := now.Sub(createdAt)
	if elapsed < 24*time.Hour {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}

func progressPercentage(req *model.DesignRequest) int {
	total := len(req.Milestones)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(req.CompletedMilestones()) / float64(total)))
}

func isOverdue(req *model.DesignRequest, now time.Time) bool {
	if req.Timeframe.RequiredBy == nil || req.Status.Terminal() {
		return false
	}
	return now.After(*req.Timeframe.RequiredBy)
}
