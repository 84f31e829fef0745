package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"basurahub/internal/classify"
	"basurahub/internal/http-api/dto"
	"basurahub/internal/http-api/middleware"
	"basurahub/internal/http-api/models"
	"basurahub/internal/http-api/repository"
	"basurahub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type WasteHandler struct {
	svc service.SubmissionService
}

func NewWasteHandler(svc service.SubmissionService) *WasteHandler {
	return &WasteHandler{svc: svc}
}

func (h *WasteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", middleware.RequireRole(models.RoleResident, models.RoleAdmin), h.Submit)
	rg.POST("/analyze", h.Analyze)
	rg.GET("/pending", middleware.RequireRole(models.RoleCollector, models.RoleAdmin), h.ListPending)
	rg.GET("/mine", h.ListMine)
	rg.GET("/assigned", middleware.RequireRole(models.RoleCollector, models.RoleAdmin), h.ListAssigned)
	rg.GET("/routes/today", middleware.RequireRole(models.RoleCollector, models.RoleAdmin), h.TodaysRoutes)
	rg.GET("/upcoming", middleware.RequireRole(models.RoleCollector, models.RoleAdmin), h.UpcomingCollections)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Cancel)
	rg.POST("/:id/accept", middleware.RequireRole(models.RoleCollector, models.RoleAdmin), h.Accept)
	rg.POST("/:id/complete", middleware.RequireRole(models.RoleCollector, models.RoleAdmin), h.Complete)
}

// writeWorkflowError maps service sentinels onto HTTP statuses.
func writeWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, repository.ErrNoUpdatableFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Submit accepts the multipart submission form, photo included.
func (h *WasteHandler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var form dto.SubmitWasteForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.SubmitInput{
		PredictedCategory:  form.PredictedCategory,
		ConfidenceScore:    form.ConfidenceScore,
		ConfirmedCategory:  form.ConfirmedCategory,
		WasteTypes:         dto.ParseTagList(form.WasteTypes),
		WasteAdjectives:    dto.ParseTagList(form.WasteAdjectives),
		WasteDescription:   form.WasteDescription,
		Latitude:           form.Latitude,
		Longitude:          form.Longitude,
		AddressDescription: form.AddressDescription,
		BarangayID:         form.BarangayID,
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded image"})
			return
		}
		defer file.Close()
		in.Image = file
		in.ImageName = fileHeader.Filename
		in.ImageSize = fileHeader.Size
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	submission, err := h.svc.Submit(ctx, userID, in)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// Analyze classifies recognizer labels without persisting anything.
func (h *WasteHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, classify.Predict(req.Labels))
}

func (h *WasteHandler) ListPending(c *gin.Context) {
	filters := repository.PendingFilters{
		WasteTypes:      c.QueryArray("waste_types"),
		WasteAdjectives: c.QueryArray("waste_adjectives"),
	}
	if raw := c.Query("barangay_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid barangay_id"})
			return
		}
		filters.BarangayID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submissions, err := h.svc.ListPending(ctx, filters)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions, "total": len(submissions)})
}

func (h *WasteHandler) ListMine(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submissions, err := h.svc.ListOwnedBy(ctx, userID)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions, "total": len(submissions)})
}

func (h *WasteHandler) ListAssigned(c *gin.Context) {
	collectorID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submissions, err := h.svc.ListAssignedTo(ctx, collectorID)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions, "total": len(submissions)})
}

func (h *WasteHandler) TodaysRoutes(c *gin.Context) {
	collectorID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submissions, err := h.svc.TodaysRoutes(ctx, collectorID)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": submissions, "total": len(submissions)})
}

func (h *WasteHandler) UpcomingCollections(c *gin.Context) {
	collectorID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submissions, err := h.svc.UpcomingCollections(ctx, collectorID)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions, "total": len(submissions)})
}

func (h *WasteHandler) Get(c *gin.Context) {
	id, err := parseSubmissionID(c)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submission, err := h.svc.GetByID(ctx, id)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	// owners see their own, assigned collectors their claims, collectors any
	// pending work, admins everything
	userID := c.GetString("user_id")
	role := c.GetString("role")
	visible := submission.UserID == userID ||
		role == models.RoleAdmin ||
		(submission.CollectorID != nil && *submission.CollectorID == userID) ||
		(role == models.RoleCollector && submission.CollectionStatus == models.StatusPending)
	if !visible {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to view this submission"})
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *WasteHandler) Update(c *gin.Context) {
	id, err := parseSubmissionID(c)
	if err != nil {
		return
	}

	var req dto.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.UpdateInput{
		ConfirmedCategory:  req.ConfirmedCategory,
		WasteDescription:   req.WasteDescription,
		AddressDescription: req.AddressDescription,
		BarangayID:         req.BarangayID,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
	}
	if req.WasteTypes != nil {
		in.WasteTypes = *req.WasteTypes
	}
	if req.WasteAdjectives != nil {
		in.WasteAdjectives = *req.WasteAdjectives
	}
	if req.ScheduledDate != nil {
		scheduled, err := time.Parse("2006-01-02", *req.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_date must be YYYY-MM-DD"})
			return
		}
		in.ScheduledDate = &scheduled
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submission, err := h.svc.Update(ctx, c.GetString("user_id"), c.GetString("role"), id, in)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *WasteHandler) Cancel(c *gin.Context) {
	id, err := parseSubmissionID(c)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Cancel(ctx, c.GetString("user_id"), c.GetString("role"), id); err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WasteHandler) Accept(c *gin.Context) {
	id, err := parseSubmissionID(c)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submission, err := h.svc.Accept(ctx, c.GetString("user_id"), c.GetString("role"), id)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *WasteHandler) Complete(c *gin.Context) {
	id, err := parseSubmissionID(c)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submission, err := h.svc.Complete(ctx, c.GetString("user_id"), c.GetString("role"), id)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// parseSubmissionID writes the 400 itself so callers can just return.
func parseSubmissionID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return 0, err
	}
	return id, nil
}
