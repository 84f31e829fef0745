package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"basurahub/internal/http-api/dto"
	"basurahub/internal/http-api/middleware"
	"basurahub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	svc service.ScheduleService
}

func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Mine)
	rg.GET("/upcoming", h.Upcoming)
	rg.GET("/location/:location_id", h.ByLocation)
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.PUT("/:id", middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
}

func writeScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Mine lists the active schedules for the caller's barangay.
func (h *ScheduleHandler) Mine(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	schedules, err := h.svc.ForUser(ctx, userID)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules, "total": len(schedules)})
}

// Upcoming resolves each of the caller's schedules to its next concrete date.
func (h *ScheduleHandler) Upcoming(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	schedules, err := h.svc.UpcomingForUser(ctx, userID)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules, "total": len(schedules)})
}

func (h *ScheduleHandler) ByLocation(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Param("location_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	schedules, err := h.svc.ByLocation(ctx, c.GetString("user_id"), c.GetString("role"), locationID)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules, "total": len(schedules)})
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	schedule, err := h.svc.Create(ctx, c.GetString("user_id"), service.ScheduleInput{
		LocationID:     req.LocationID,
		CollectionDay:  req.CollectionDay,
		CollectionTime: req.CollectionTime,
		WasteType:      req.WasteType,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	schedule, err := h.svc.Update(ctx, id, service.ScheduleUpdateInput{
		LocationID:     req.LocationID,
		CollectionDay:  req.CollectionDay,
		CollectionTime: req.CollectionTime,
		WasteType:      req.WasteType,
		IsActive:       req.IsActive,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		writeScheduleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
