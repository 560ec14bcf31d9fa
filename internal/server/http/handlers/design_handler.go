package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/permission"
	"github.com/gildedline/atelier/internal/domain/repository"
	"github.com/gildedline/atelier/internal/server/http/dto"
	"github.com/gildedline/atelier/internal/usecase"
)

// DesignHandler manages custom design request endpoints.
type DesignHandler struct {
	facade DesignFacade
	logger *slog.Logger
	now    func() time.Time
}

// NewDesignHandler constructs DesignHandler.
func NewDesignHandler(facade DesignFacade, logger *slog.Logger) *DesignHandler {
	return &DesignHandler{facade: facade, logger: logger, now: time.Now}
}

// Create handles POST /api/custom-designs.
func (h *DesignHandler) Create(c *gin.Context) {
	caller := CurrentIdentity(c)

	var req dto.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	in := usecase.CreateDesignInput{
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		ProjectType:        model.ProjectType(req.ProjectType),
		Complexity:         model.Complexity(req.Complexity),
		Customer: model.CustomerInfo{
			FirstName: req.CustomerInfo.FirstName,
			LastName:  req.CustomerInfo.LastName,
			Email:     req.CustomerInfo.Email,
			Phone:     req.CustomerInfo.Phone,
		},
		Budget:    model.BudgetRange{Minimum: req.Budget.Minimum, Maximum: req.Budget.Maximum},
		Timeframe: model.Timeframe{RequiredBy: req.Timeframe.RequiredBy, Urgency: req.Timeframe.Urgency},
		Tags:      req.Tags,
	}

	created, err := h.facade.CreateDesign(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	derived := usecase.ComputeDerivedFields(created, h.now())
	c.JSON(http.StatusCreated, dto.Success("Custom design request submitted successfully",
		dto.NewDesignResponse(created, derived, false)))
}

// Get handles GET /api/custom-designs/:id.
func (h *DesignHandler) Get(c *gin.Context) {
	caller := CurrentIdentity(c)

	id, ok := requestID(c)
	if !ok {
		return
	}

	req, perms, err := h.facade.DesignByID(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	derived := usecase.ComputeDerivedFields(req, h.now())
	resp := dto.NewDesignResponse(req, derived, perms.Has(permission.ViewInternalNotes))
	resp.Permissions = &dto.PermissionsResponse{
		CanManage:            perms.Has(permission.ManageCustomDesigns),
		CanViewInternalNotes: perms.Has(permission.ViewInternalNotes),
		CanRecordPayments:    perms.Has(permission.RecordPayments),
	}
	c.JSON(http.StatusOK, dto.Success("", resp))
}

// List handles GET /api/custom-designs.
func (h *DesignHandler) List(c *gin.Context) {
	caller := CurrentIdentity(c)
	filter, echo := listFilter(c, caller)

	requests, total, err := h.facade.ListDesigns(c.Request.Context(), caller, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	now := h.now()
	items := make([]dto.DesignResponse, 0, len(requests))
	for i := range requests {
		derived := usecase.ComputeDerivedFields(&requests[i], now)
		items = append(items, dto.NewDesignResponse(&requests[i], derived, false))
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ListResponse{
		Requests:   items,
		Pagination: dto.NewPagination(filter.Page, filter.Limit, total),
		Filters:    echo,
	}))
}

// Update handles PATCH /api/custom-designs/:id.
func (h *DesignHandler) Update(c *gin.Context) {
	caller := CurrentIdentity(c)

	id, ok := requestID(c)
	if !ok {
		return
	}

	var req dto.UpdateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	updated, err := h.facade.UpdateDesign(c.Request.Context(), caller, id, updatePatch(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	derived := usecase.ComputeDerivedFields(updated, h.now())
	c.JSON(http.StatusOK, dto.Success("Custom design request updated successfully",
		dto.NewDesignResponse(updated, derived, true)))
}

// AddQuote handles POST /api/custom-designs/:id.
func (h *DesignHandler) AddQuote(c *gin.Context) {
	caller := CurrentIdentity(c)

	id, ok := requestID(c)
	if !ok {
		return
	}

	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	quote, err := h.facade.AddQuote(c.Request.Context(), caller, id, usecase.QuoteInput{
		Price:                 model.Price{Amount: req.Price.Amount, Currency: req.Price.Currency},
		Description:           req.Description,
		Breakdown:             req.Breakdown,
		EstimatedDeliveryDays: req.EstimatedDeliveryDays,
		RevisionsIncluded:     req.RevisionsIncluded,
		ValidityDays:          req.ValidityDays,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success("Quote added successfully", dto.NewQuoteResponse(*quote)))
}

// AcceptQuote handles PUT /api/custom-designs/:id.
func (h *DesignHandler) AcceptQuote(c *gin.Context) {
	caller := CurrentIdentity(c)

	id, ok := requestID(c)
	if !ok {
		return
	}

	var req dto.AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	quote, err := h.facade.AcceptQuote(c.Request.Context(), caller, id, req.QuoteID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success("Quote accepted successfully", dto.NewQuoteResponse(*quote)))
}

// AddNote handles POST /api/custom-designs/:id/notes.
func (h *DesignHandler) AddNote(c *gin.Context) {
	caller := CurrentIdentity(c)

	id, ok := requestID(c)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	entry, err := h.facade.AddNote(c.Request.Context(), caller, id, req.Content, req.IsInternal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success("Note added successfully", dto.NewEntryResponse(*entry)))
}

// RecordPayment handles POST /api/custom-designs/:id/payments.
func (h *DesignHandler) RecordPayment(c *gin.Context) {
	caller := CurrentIdentity(c)

	id, ok := requestID(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	payment, err := h.facade.RecordPayment(c.Request.Context(), caller, id, req.Amount, model.PaymentKind(req.Kind))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success("Payment recorded successfully", dto.NewPaymentResponse(*payment)))
}

func requestID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.Error(codeNotFound, "Custom design request not found"))
		return uuid.UUID{}, false
	}
	return id, true
}

func listFilter(c *gin.Context, caller model.Identity) (repository.ListFilter, map[string]string) {
	var f repository.ListFilter
	echo := make(map[string]string)

	// owner filtering is staff-only; customers are scoped to their own
	// records downstream no matter what they pass here
	if v := c.Query("userId"); v != "" && permission.ForRole(caller.Role).Has(permission.ViewCustomDesigns) {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.OwnerID = &id
			echo["userId"] = v
		}
	}
	if v := c.Query("status"); v != "" {
		status := model.RequestStatus(v)
		f.Status = &status
		echo["status"] = v
	}
	if v := c.Query("projectType"); v != "" {
		pt := model.ProjectType(v)
		f.ProjectType = &pt
		echo["projectType"] = v
	}
	if v := c.Query("priority"); v != "" {
		p := model.Priority(v)
		f.Priority = &p
		echo["priority"] = v
	}
	if v := c.Query("designerAssigned"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.DesignerAssigned = &id
			echo["designerAssigned"] = v
		}
	}
	if v := c.Query("search"); v != "" {
		f.Search = v
		echo["search"] = v
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > usecase.MaxListLimit {
		f.Limit = usecase.MaxListLimit
	}

	return f, echo
}

func updatePatch(req dto.UpdateDesignRequest) repository.UpdatePatch {
	patch := repository.UpdatePatch{
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		DesignerAssigned:   req.DesignerAssigned,
		ProjectManager:     req.ProjectManager,
		RequiredBy:         req.RequiredBy,
		Urgency:            req.Urgency,
		Tags:               req.Tags,
	}
	if req.ProjectType != nil {
		pt := model.ProjectType(*req.ProjectType)
		patch.ProjectType = &pt
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Complexity != nil {
		cx := model.Complexity(*req.Complexity)
		patch.Complexity = &cx
	}
	if req.Status != nil {
		st := model.RequestStatus(*req.Status)
		patch.Status = &st
	}
	if req.Milestones != nil {
		patch.Milestones = make([]model.Milestone, 0, len(req.Milestones))
		for _, m := range req.Milestones {
			status := model.MilestoneStatus(m.Status)
			if status == "" {
				status = model.MilestoneStatusPending
			}
			patch.Milestones = append(patch.Milestones, model.Milestone{
				Name:        m.Name,
				Status:      status,
				CompletedAt: m.CompletedAt,
			})
		}
	}
	return patch
}
