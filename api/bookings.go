package api

import (
	"net/http"
	"time"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookSlotRequest struct {
	SlotID        string `json:"slot_id"`
	CustomerName  string `json:"customer_name"`
	VehicleNumber string `json:"vehicle_number"`
}

type bookingResponse struct {
	ID            string `json:"id"`
	SlotID        string `json:"slot_id"`
	CustomerName  string `json:"customer_name"`
	VehicleNumber string `json:"vehicle_number"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.PUT("/:id", h.complete)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) list(c *gin.Context) {
	var (
		result []domain.Booking
		err    error
	)
	if term := c.Query("q"); term != "" {
		result, err = h.service.SearchBookings(c.Request.Context(), term)
	} else {
		result, err = h.service.ListBookings(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(result))
	for _, b := range result {
		out = append(out, toBookingResponse(&b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req bookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.BookSlot(c.Request.Context(), booking.BookSlotInput{
		SlotID:        req.SlotID,
		CustomerName:  req.CustomerName,
		VehicleNumber: req.VehicleNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) complete(c *gin.Context) {
	completed, err := h.service.CompleteBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(completed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		SlotID:        b.SlotID,
		CustomerName:  b.CustomerName,
		VehicleNumber: b.VehicleNumber,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
