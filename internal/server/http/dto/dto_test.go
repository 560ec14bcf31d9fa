package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedline/atelier/internal/domain/model"
)

var dtoClock = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func sampleRequest() *model.DesignRequest {
	req := &model.DesignRequest{
		ID:           uuid.MustParse("5f3e9a1c-7b2d-4e8f-9c0a-1a2b3c4d5e6f"),
		OwnerID:      7,
		ProjectTitle: "Engagement Ring",
		ProjectType:  model.ProjectTypeRing,
		Priority:     model.PriorityMedium,
		Complexity:   model.ComplexityModerate,
		Status:       model.StatusQuoted,
		Customer:     model.CustomerInfo{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"},
		Quotes: []model.Quote{{
			ID:        uuid.New(),
			Price:     model.Price{Amount: 2500, Currency: "USD"},
			Status:    model.QuoteStatusPending,
			CreatedAt: dtoClock,
		}},
		Milestones: []model.Milestone{
			{ID: 1, Name: "Design Approval", Status: model.MilestoneStatusCompleted},
			{ID: 2, Name: "Casting", Status: model.MilestoneStatusPending},
		},
		CreatedAt: dtoClock.AddDate(0, 0, -10),
		UpdatedAt: dtoClock,
	}
	req.Log.Append(model.CommunicationEntry{ID: 1, Type: model.EntryTypeNote, Participant: 11, Content: "Customer prefers platinum", IsInternal: true, CreatedAt: dtoClock})
	req.Log.Append(model.CommunicationEntry{ID: 2, Type: model.EntryTypeStatusChange, Participant: 11, Content: "Status changed from pending to quoted", CreatedAt: dtoClock})
	return req
}

func TestNewDesignResponseRedaction(t *testing.T) {
	req := sampleRequest()
	derived := model.DerivedFields{
		ProjectNumber: req.ProjectNumber(),
		CustomerName:  req.Customer.FullName(),
		DaysOpen:      10,
		CurrentQuote:  &req.Quotes[0],
	}

	resp := NewDesignResponse(req, derived, false)
	require.Len(t, resp.CommunicationLog, 2)
	assert.Equal(t, model.InternalNotePlaceholder, resp.CommunicationLog[0].Content)
	assert.False(t, resp.CommunicationLog[0].IsInternal)
	assert.Equal(t, "Status changed from pending to quoted", resp.CommunicationLog[1].Content)

	staff := NewDesignResponse(req, derived, true)
	assert.Equal(t, "Customer prefers platinum", staff.CommunicationLog[0].Content)
	assert.True(t, staff.CommunicationLog[0].IsInternal)
}

func TestNewDesignResponseFields(t *testing.T) {
	req := sampleRequest()
	derived := model.DerivedFields{
		ProjectNumber:      req.ProjectNumber(),
		CustomerName:       req.Customer.FullName(),
		DaysOpen:           10,
		ProgressPercentage: 50,
		CurrentQuote:       &req.Quotes[0],
	}

	resp := NewDesignResponse(req, derived, true)
	assert.Equal(t, "CD-3C4D5E6F", resp.ProjectNumber)
	assert.Equal(t, "Ana Lee", resp.CustomerName)
	assert.Equal(t, 10, resp.DaysOpen)
	assert.Equal(t, 50, resp.ProgressPercentage)
	require.NotNil(t, resp.CurrentQuote)
	assert.Equal(t, req.Quotes[0].ID.String(), resp.CurrentQuote.ID)
	require.Len(t, resp.Milestones, 2)
	assert.Equal(t, "completed", resp.Milestones[0].Status)
	assert.Nil(t, resp.Permissions)
}

func TestNewQuoteResponse(t *testing.T) {
	id := uuid.New()
	quote := model.Quote{
		ID:                    id,
		Price:                 model.Price{Amount: 2500, Currency: "USD"},
		Description:           "Platinum band",
		Breakdown:             []model.QuoteLineItem{{Label: "materials", Amount: 1500}},
		EstimatedDeliveryDays: 45,
		RevisionsIncluded:     2,
		ValidUntil:            dtoClock.AddDate(0, 0, 30),
		Status:                model.QuoteStatusPending,
		CreatedBy:             10,
		CreatedAt:             dtoClock,
	}

	resp := NewQuoteResponse(quote)
	assert.Equal(t, id.String(), resp.ID)
	assert.Equal(t, 2500.0, resp.Price.Amount)
	assert.Equal(t, "pending", resp.Status)
	require.Len(t, resp.Breakdown, 1)
	assert.Equal(t, "materials", resp.Breakdown[0].Label)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		limit   int
		total   int
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{name: "first of many", page: 1, limit: 10, total: 25, pages: 3, hasNext: true, hasPrev: false},
		{name: "middle", page: 2, limit: 10, total: 25, pages: 3, hasNext: true, hasPrev: true},
		{name: "last", page: 3, limit: 10, total: 25, pages: 3, hasNext: false, hasPrev: true},
		{name: "empty", page: 1, limit: 10, total: 0, pages: 0, hasNext: false, hasPrev: false},
		{name: "exact fit", page: 1, limit: 5, total: 5, pages: 1, hasNext: false, hasPrev: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.pages, p.TotalPages)
			assert.Equal(t, tt.total, p.TotalRequests)
			assert.Equal(t, tt.hasNext, p.HasNextPage)
			assert.Equal(t, tt.hasPrev, p.HasPreviousPage)
		})
	}
}
