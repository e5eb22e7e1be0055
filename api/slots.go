package api

import (
	"net/http"
	"time"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/service/slots"
	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	service slots.SlotUseCase
}

type createSlotRequest struct {
	Number string `json:"number"`
}

type slotResponse struct {
	ID              string  `json:"id"`
	Number          string  `json:"number"`
	Status          string  `json:"status"`
	ActiveBookingID *string `json:"active_booking_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func NewSlotHandler(service slots.SlotUseCase) *SlotHandler {
	return &SlotHandler{service: service}
}

func (h *SlotHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("/", h.list)
	router.GET("/occupancy", h.occupancy)
	router.GET("/stats", h.stats)
	router.POST("/", admin, h.create)
	router.DELETE("/:id", admin, h.remove)
	router.POST("/reset", admin, h.reset)
	router.POST("/:id/empty", admin, h.empty)
	router.POST("/:id/occupy", admin, h.occupy)
}

func (h *SlotHandler) list(c *gin.Context) {
	var (
		result []domain.Slot
		err    error
	)
	if term := c.Query("q"); term != "" {
		result, err = h.service.SearchSlots(c.Request.Context(), term)
	} else {
		result, err = h.service.ListSlots(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]slotResponse, 0, len(result))
	for _, s := range result {
		out = append(out, toSlotResponse(&s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *SlotHandler) occupancy(c *gin.Context) {
	rate, err := h.service.OccupancyRate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupancy_rate": rate})
}

func (h *SlotHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *SlotHandler) create(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), req.Number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSlotResponse(slot))
}

func (h *SlotHandler) remove(c *gin.Context) {
	if err := h.service.RemoveSlot(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SlotHandler) reset(c *gin.Context) {
	if err := h.service.ResetAllSlots(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SlotHandler) empty(c *gin.Context) {
	slot, err := h.service.EmptySlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) occupy(c *gin.Context) {
	slot, err := h.service.MarkOccupied(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlotResponse(slot))
}

func toSlotResponse(s *domain.Slot) slotResponse {
	return slotResponse{
		ID:              s.ID,
		Number:          s.Number,
		Status:          string(s.Status),
		ActiveBookingID: s.ActiveBookingID,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
}
