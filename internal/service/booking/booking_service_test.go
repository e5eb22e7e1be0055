package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.Status = domain.BookingStatusActive
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Finish(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindActiveBySlot(ctx context.Context, slotID string) (*domain.Booking, error) {
	args := m.Called(ctx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CancelAllActive(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) List(ctx context.Context) ([]domain.Slot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetByNumber(ctx context.Context, number string) (*domain.Slot, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockSlotRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSlotRepository) SetStatus(ctx context.Context, id string, status domain.SlotStatus, activeBookingID *string) error {
	args := m.Called(ctx, id, status, activeBookingID)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSlotHold(ctx context.Context, slotID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, slotID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseSlotHold(ctx context.Context, slotID string) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}

func (m *MockCache) InvalidateSlots(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService(bookings *MockBookingRepository, slots *MockSlotRepository, cache *MockCache, producer *MockProducer) *BookingService {
	var mu sync.Mutex
	svc := &BookingService{
		bookings:     bookings,
		slots:        slots,
		bookingTopic: "bookings",
		holdTTL:      time.Minute,
		mu:           &mu,
	}
	if cache != nil {
		svc.cache = cache
	}
	if producer != nil {
		svc.producer = producer
	}
	return svc
}

func TestBookingService_BookSlot_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockSlots := &MockSlotRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockSlots, mockCache, mockProducer)

	ctx := context.Background()
	slot := &domain.Slot{ID: "slot-1", Number: "A1", Status: domain.SlotStatusAvailable}

	mockSlots.On("GetByID", ctx, "slot-1").Return(slot, nil).Once()
	mockCache.On("AcquireSlotHold", ctx, "slot-1", time.Minute).Return(true, nil).Once()
	mockBookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockCache.On("ReleaseSlotHold", ctx, "slot-1").Return(nil).Once()
	mockCache.On("InvalidateSlots", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "bookings", mock.Anything, mock.Anything).Return(nil).Once()

	booking, err := service.BookSlot(ctx, BookSlotInput{
		SlotID:        "slot-1",
		CustomerName:  "Alice",
		VehicleNumber: "xyz999",
	})

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, domain.BookingStatusActive, booking.Status)
	assert.Equal(t, "Alice", booking.CustomerName)
	assert.Equal(t, "XYZ999", booking.VehicleNumber)
	assert.NotEmpty(t, booking.ID)

	mockSlots.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_BookSlot_ValidationErrors(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockSlotRepository{}, nil, nil)
	ctx := context.Background()

	testCases := []struct {
		name  string
		input BookSlotInput
	}{
		{
			name:  "blank customer name",
			input: BookSlotInput{SlotID: "slot-1", CustomerName: "   ", VehicleNumber: "XYZ999"},
		},
		{
			name:  "blank vehicle number",
			input: BookSlotInput{SlotID: "slot-1", CustomerName: "Alice", VehicleNumber: ""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			booking, err := service.BookSlot(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, booking)
		})
	}
}

func TestBookingService_BookSlot_SlotNotAvailable(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockSlots := &MockSlotRepository{}
	service := newTestService(mockBookings, mockSlots, nil, nil)

	ctx := context.Background()
	slot := &domain.Slot{ID: "slot-1", Number: "A1", Status: domain.SlotStatusReserved}
	mockSlots.On("GetByID", ctx, "slot-1").Return(slot, nil).Once()

	booking, err := service.BookSlot(ctx, BookSlotInput{
		SlotID:        "slot-1",
		CustomerName:  "Alice",
		VehicleNumber: "XYZ999",
	})

	assert.ErrorIs(t, err, domain.ErrSlotNotAvailable)
	assert.Nil(t, booking)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_BookSlot_SlotNotFound(t *testing.T) {
	mockSlots := &MockSlotRepository{}
	service := newTestService(&MockBookingRepository{}, mockSlots, nil, nil)

	ctx := context.Background()
	mockSlots.On("GetByID", ctx, "nope").Return(nil, domain.ErrSlotNotFound).Once()

	booking, err := service.BookSlot(ctx, BookSlotInput{
		SlotID:        "nope",
		CustomerName:  "Alice",
		VehicleNumber: "XYZ999",
	})

	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
	assert.Nil(t, booking)
}

func TestBookingService_BookSlot_HoldContention(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockSlots := &MockSlotRepository{}
	mockCache := &MockCache{}
	service := newTestService(mockBookings, mockSlots, mockCache, nil)

	ctx := context.Background()
	slot := &domain.Slot{ID: "slot-1", Number: "A1", Status: domain.SlotStatusAvailable}
	mockSlots.On("GetByID", ctx, "slot-1").Return(slot, nil).Once()
	mockCache.On("AcquireSlotHold", ctx, "slot-1", time.Minute).Return(false, nil).Once()

	booking, err := service.BookSlot(ctx, BookSlotInput{
		SlotID:        "slot-1",
		CustomerName:  "Alice",
		VehicleNumber: "XYZ999",
	})

	assert.ErrorIs(t, err, domain.ErrSlotNotAvailable)
	assert.Nil(t, booking)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CancelBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockSlots := &MockSlotRepository{}
	service := newTestService(mockBookings, mockSlots, nil, nil)

	ctx := context.Background()
	active := &domain.Booking{ID: "b-1", SlotID: "slot-1", Status: domain.BookingStatusActive}
	cancelled := &domain.Booking{ID: "b-1", SlotID: "slot-1", Status: domain.BookingStatusCancelled}

	mockBookings.On("GetByID", ctx, "b-1").Return(active, nil).Once()
	mockBookings.On("Finish", ctx, "b-1", domain.BookingStatusCancelled).Return(cancelled, nil).Once()

	result, err := service.CancelBooking(ctx, "b-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, result.Status)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_CancelBooking_AlreadyTerminal(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockSlotRepository{}, nil, nil)

	ctx := context.Background()
	done := &domain.Booking{ID: "b-1", SlotID: "slot-1", Status: domain.BookingStatusCompleted}
	mockBookings.On("GetByID", ctx, "b-1").Return(done, nil).Once()

	result, err := service.CancelBooking(ctx, "b-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, result.Status)
	mockBookings.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CompleteBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockSlots := &MockSlotRepository{}
	service := newTestService(mockBookings, mockSlots, nil, nil)

	ctx := context.Background()
	active := &domain.Booking{ID: "b-1", SlotID: "slot-1", Status: domain.BookingStatusActive}
	completed := &domain.Booking{ID: "b-1", SlotID: "slot-1", Status: domain.BookingStatusCompleted}

	mockBookings.On("GetByID", ctx, "b-1").Return(active, nil).Once()
	mockBookings.On("Finish", ctx, "b-1", domain.BookingStatusCompleted).Return(completed, nil).Once()

	result, err := service.CompleteBooking(ctx, "b-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, result.Status)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_CancelBooking_NotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockSlotRepository{}, nil, nil)

	ctx := context.Background()
	mockBookings.On("GetByID", ctx, "missing").Return(nil, domain.ErrBookingNotFound).Once()

	result, err := service.CancelBooking(ctx, "missing")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	assert.Nil(t, result)
}

func TestBookingService_SearchBookings(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockSlotRepository{}, nil, nil)

	ctx := context.Background()
	all := []domain.Booking{
		{ID: "aaa111", CustomerName: "Alice", VehicleNumber: "XYZ999"},
		{ID: "bbb222", CustomerName: "Bob", VehicleNumber: "ABC123"},
	}
	mockBookings.On("List", ctx).Return(all, nil)

	byName, err := service.SearchBookings(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, byName, 1)
	assert.Equal(t, "Alice", byName[0].CustomerName)

	byVehicle, err := service.SearchBookings(ctx, "abc")
	assert.NoError(t, err)
	assert.Len(t, byVehicle, 1)
	assert.Equal(t, "Bob", byVehicle[0].CustomerName)

	byID, err := service.SearchBookings(ctx, "aaa")
	assert.NoError(t, err)
	assert.Len(t, byID, 1)

	everything, err := service.SearchBookings(ctx, "  ")
	assert.NoError(t, err)
	assert.Len(t, everything, 2)
}
