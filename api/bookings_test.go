package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase.
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) BookSlot(ctx context.Context, input booking.BookSlotInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CompleteBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SearchBookings(ctx context.Context, term string) ([]domain.Booking, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := booking.BookSlotInput{
		SlotID:        "slot-1",
		CustomerName:  "Alice",
		VehicleNumber: "xyz999",
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Booking{
		ID:            "b-1",
		SlotID:        "slot-1",
		CustomerName:  "Alice",
		VehicleNumber: "XYZ999",
		Status:        domain.BookingStatusActive,
	}

	mockService.On("BookSlot", c.Request.Context(), input).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "b-1", response.ID)
	assert.Equal(t, "XYZ999", response.VehicleNumber)
	assert.Equal(t, string(domain.BookingStatusActive), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_slotNotAvailable(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(bookSlotRequest{SlotID: "slot-1", CustomerName: "Alice", VehicleNumber: "XYZ999"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("BookSlot", c.Request.Context(), mock.Anything).Return(nil, domain.ErrSlotNotAvailable)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/b-1", nil)

	cancelled := &domain.Booking{
		ID:     "b-1",
		SlotID: "slot-1",
		Status: domain.BookingStatusCancelled,
	}
	mockService.On("CancelBooking", c.Request.Context(), "b-1").Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_complete_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("PUT", "/bookings/missing", nil)

	mockService.On("CompleteBooking", c.Request.Context(), "missing").Return(nil, domain.ErrBookingNotFound)

	handler.complete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_list_search(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings?q=alice", nil)

	found := []domain.Booking{{ID: "b-1", CustomerName: "Alice", Status: domain.BookingStatusActive}}
	mockService.On("SearchBookings", c.Request.Context(), "alice").Return(found, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "Alice", response[0].CustomerName)

	mockService.AssertExpectations(t)
}
