package booking

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/kafka"
	"github.com/akarsenev/parkslot/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	BookSlot(ctx context.Context, input BookSlotInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	SearchBookings(ctx context.Context, term string) ([]domain.Booking, error)
}

type Cache interface {
	AcquireSlotHold(ctx context.Context, slotID string, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, slotID string) error
	InvalidateSlots(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	slots              repository.SlotRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	mu                 *sync.Mutex
}

type BookSlotInput struct {
	SlotID        string `json:"slot_id"`
	CustomerName  string `json:"customer_name"`
	VehicleNumber string `json:"vehicle_number"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// NewBookingService builds the booking half of the state manager. mu is the
// write lock shared with the slots service so all mutations across both are
// serialized.
func NewBookingService(
	bookings repository.BookingRepository,
	slots repository.SlotRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	mu *sync.Mutex,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		slots:        slots,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		mu:           mu,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) BookSlot(ctx context.Context, input BookSlotInput) (*domain.Booking, error) {
	customerName := strings.TrimSpace(input.CustomerName)
	vehicleNumber := strings.ToUpper(strings.TrimSpace(input.VehicleNumber))
	if customerName == "" || vehicleNumber == "" {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slots.GetByID(ctx, input.SlotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotStatusAvailable {
		return nil, domain.ErrSlotNotAvailable
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSlotHold(ctx, slot.ID, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrSlotNotAvailable
		}
		locked = true
	}

	booking := &domain.Booking{
		ID:            uuid.NewString(),
		SlotID:        slot.ID,
		CustomerName:  customerName,
		VehicleNumber: vehicleNumber,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if locked {
			_ = s.cache.ReleaseSlotHold(ctx, slot.ID)
		}
		return nil, err
	}

	if locked {
		_ = s.cache.ReleaseSlotHold(ctx, slot.ID)
	}
	s.invalidateSlots(ctx)
	s.publish(ctx, "booking_created", booking, slot.Number)
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.finish(ctx, id, domain.BookingStatusCancelled, "booking_cancelled")
}

func (s *BookingService) CompleteBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.finish(ctx, id, domain.BookingStatusCompleted, "booking_completed")
}

func (s *BookingService) finish(ctx context.Context, id string, status domain.BookingStatus, eventType string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Terminal bookings stay as they are; a second cancel or complete must
	// not free a slot that may belong to a newer booking by now.
	if current.Status.Terminal() {
		return current, nil
	}

	updated, err := s.bookings.Finish(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.invalidateSlots(ctx)
	if s.producer != nil && s.bookingTopic != "" {
		s.publish(ctx, eventType, updated, s.slotNumber(ctx, updated.SlotID))
	}
	return updated, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) SearchBookings(ctx context.Context, term string) ([]domain.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return bookings, nil
	}

	matched := make([]domain.Booking, 0)
	for _, b := range bookings {
		if strings.Contains(strings.ToLower(b.CustomerName), needle) ||
			strings.Contains(strings.ToLower(b.VehicleNumber), needle) ||
			strings.Contains(strings.ToLower(b.ID), needle) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (s *BookingService) invalidateSlots(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSlots(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate slots cache: %v", err)
	}
}

func (s *BookingService) slotNumber(ctx context.Context, slotID string) string {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return ""
	}
	return slot.Number
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, slotNumber string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		SlotID:        booking.SlotID,
		SlotNumber:    slotNumber,
		CustomerName:  booking.CustomerName,
		VehicleNumber: booking.VehicleNumber,
		Status:        string(booking.Status),
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, booking.ID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
