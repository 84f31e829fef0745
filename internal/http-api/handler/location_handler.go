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

type LocationHandler struct {
	svc service.LocationService
}

func NewLocationHandler(svc service.LocationService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.PUT("/:id", middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
}

func writeLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *LocationHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	locations, err := h.svc.List(ctx)
	if err != nil {
		writeLocationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations, "total": len(locations)})
}

func (h *LocationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	location, err := h.svc.Get(ctx, id)
	if err != nil {
		writeLocationError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	location, err := h.svc.Create(ctx, service.LocationInput{
		BarangayName: req.BarangayName,
		Municipality: req.Municipality,
		Province:     req.Province,
		ZoneOrStreet: req.ZoneOrStreet,
	})
	if err != nil {
		writeLocationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	location, err := h.svc.Update(ctx, id, service.LocationUpdateInput{
		BarangayName: req.BarangayName,
		Municipality: req.Municipality,
		Province:     req.Province,
		ZoneOrStreet: req.ZoneOrStreet,
	})
	if err != nil {
		writeLocationError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		writeLocationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
