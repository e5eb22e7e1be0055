package slots

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/repository"
	"github.com/google/uuid"
)

type SlotUseCase interface {
	CreateSlot(ctx context.Context, number string) (*domain.Slot, error)
	RemoveSlot(ctx context.Context, id string) error
	ResetAllSlots(ctx context.Context) error
	EmptySlot(ctx context.Context, id string) (*domain.Slot, error)
	MarkOccupied(ctx context.Context, id string) (*domain.Slot, error)
	ListSlots(ctx context.Context) ([]domain.Slot, error)
	SearchSlots(ctx context.Context, term string) ([]domain.Slot, error)
	OccupancyRate(ctx context.Context) (float64, error)
	Stats(ctx context.Context) (SlotStats, error)
}

// Canceller is the booking-side cancel path. EmptySlot goes through it so a
// forced vacate obeys the same transition rules as a customer cancellation.
type Canceller interface {
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
}

type Cache interface {
	GetSlots(ctx context.Context) ([]domain.Slot, error)
	SetSlots(ctx context.Context, slots []domain.Slot) error
	InvalidateSlots(ctx context.Context) error
}

type SlotStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Reserved  int `json:"reserved"`
}

type SlotService struct {
	slots     repository.SlotRepository
	bookings  repository.BookingRepository
	cache     Cache
	canceller Canceller
	mu        *sync.Mutex
}

// NewSlotService builds the inventory half of the state manager. mu is the
// write lock shared with the booking service.
func NewSlotService(
	slots repository.SlotRepository,
	bookings repository.BookingRepository,
	cache Cache,
	canceller Canceller,
	mu *sync.Mutex,
) *SlotService {
	return &SlotService{
		slots:     slots,
		bookings:  bookings,
		cache:     cache,
		canceller: canceller,
		mu:        mu,
	}
}

func (s *SlotService) CreateSlot(ctx context.Context, number string) (*domain.Slot, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.slots.GetByNumber(ctx, number); err == nil {
		return nil, domain.ErrDuplicateSlot
	} else if !errors.Is(err, domain.ErrSlotNotFound) {
		return nil, err
	}

	slot := &domain.Slot{
		ID:     uuid.NewString(),
		Number: number,
		Status: domain.SlotStatusAvailable,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return slot, nil
}

func (s *SlotService) RemoveSlot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.Status != domain.SlotStatusAvailable {
		return domain.ErrSlotNotRemovable
	}

	if err := s.slots.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *SlotService) ResetAllSlots(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled, err := s.bookings.CancelAllActive(ctx)
	if err != nil {
		return err
	}
	if len(cancelled) > 0 {
		log.Printf("reset cancelled %d active bookings", len(cancelled))
	}

	s.invalidate(ctx)
	return nil
}

// EmptySlot force-vacates a slot. With an active booking it delegates to the
// cancel path; with none it flips the slot back to available (seeded or
// manually marked slots can be held with no booking behind them). The lookup
// and the forced write happen under the same lock hold, so a booking cannot
// land between them.
func (s *SlotService) EmptySlot(ctx context.Context, id string) (*domain.Slot, error) {
	s.mu.Lock()

	if _, err := s.slots.GetByID(ctx, id); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	active, err := s.bookings.FindActiveBySlot(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if active != nil {
		// CancelBooking takes the write lock itself and no-ops on terminal
		// bookings, so handing off outside the lock cannot free a slot out
		// from under a newer booking.
		s.mu.Unlock()
		if _, err := s.canceller.CancelBooking(ctx, active.ID); err != nil {
			return nil, err
		}
		return s.slots.GetByID(ctx, id)
	}

	defer s.mu.Unlock()
	if err := s.slots.SetStatus(ctx, id, domain.SlotStatusAvailable, nil); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.slots.GetByID(ctx, id)
}

// MarkOccupied confirms the vehicle actually arrived: RESERVED becomes
// OCCUPIED with the booking reference intact. Marking an available slot is
// rejected so the status never claims a presence nothing backs.
func (s *SlotService) MarkOccupied(ctx context.Context, id string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.Status == domain.SlotStatusOccupied {
		return slot, nil
	}
	if slot.Status != domain.SlotStatusReserved {
		return nil, domain.ErrSlotNotAvailable
	}

	if err := s.slots.SetStatus(ctx, id, domain.SlotStatusOccupied, slot.ActiveBookingID); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.slots.GetByID(ctx, id)
}

func (s *SlotService) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSlots(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSlots(ctx, slots)
	}
	return slots, nil
}

func (s *SlotService) SearchSlots(ctx context.Context, term string) ([]domain.Slot, error) {
	slots, err := s.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return slots, nil
	}

	customerBySlot, err := s.activeCustomers(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Slot, 0)
	for _, slot := range slots {
		if strings.Contains(strings.ToLower(slot.Number), needle) ||
			strings.Contains(customerBySlot[slot.ID], needle) {
			matched = append(matched, slot)
		}
	}
	return matched, nil
}

func (s *SlotService) OccupancyRate(ctx context.Context) (float64, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return 0, err
	}
	if stats.Total == 0 {
		return 0, nil
	}
	return float64(stats.Occupied+stats.Reserved) / float64(stats.Total) * 100, nil
}

func (s *SlotService) Stats(ctx context.Context) (SlotStats, error) {
	slots, err := s.ListSlots(ctx)
	if err != nil {
		return SlotStats{}, err
	}

	stats := SlotStats{Total: len(slots)}
	for _, slot := range slots {
		switch slot.Status {
		case domain.SlotStatusAvailable:
			stats.Available++
		case domain.SlotStatusOccupied:
			stats.Occupied++
		case domain.SlotStatusReserved:
			stats.Reserved++
		}
	}
	return stats, nil
}

func (s *SlotService) activeCustomers(ctx context.Context) (map[string]string, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	customers := make(map[string]string)
	for _, b := range bookings {
		if b.Status == domain.BookingStatusActive {
			customers[b.SlotID] = strings.ToLower(b.CustomerName)
		}
	}
	return customers, nil
}

func (s *SlotService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSlots(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate slots cache: %v", err)
	}
}

var _ SlotUseCase = (*SlotService)(nil)
