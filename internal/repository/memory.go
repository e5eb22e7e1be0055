package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/akarsenev/parkslot/internal/domain"
)

// MemoryStore backs all three repositories with process-local maps. It stands
// in for postgres when no database is configured and in tests. Insertion
// order is tracked so listings stay stable for records created within the
// same clock tick.
type MemoryStore struct {
	mu       sync.RWMutex
	slots    map[string]domain.Slot
	bookings map[string]domain.Booking
	reports  map[string]domain.Report
	seq      map[string]int64
	nextSeq  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots:    make(map[string]domain.Slot),
		bookings: make(map[string]domain.Booking),
		reports:  make(map[string]domain.Report),
		seq:      make(map[string]int64),
	}
}

func (s *MemoryStore) Slots() SlotRepository       { return &memorySlotRepo{store: s} }
func (s *MemoryStore) Bookings() BookingRepository { return &memoryBookingRepo{store: s} }
func (s *MemoryStore) Reports() ReportRepository   { return &memoryReportRepo{store: s} }

func (s *MemoryStore) touch(id string) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

type memorySlotRepo struct {
	store *MemoryStore
}

func (r *memorySlotRepo) List(ctx context.Context) ([]domain.Slot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	slots := make([]domain.Slot, 0, len(r.store.slots))
	for _, s := range r.store.slots {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Number < slots[j].Number })
	return slots, nil
}

func (r *memorySlotRepo) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return &s, nil
}

func (r *memorySlotRepo) GetByNumber(ctx context.Context, number string) (*domain.Slot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.slots {
		if s.Number == number {
			return &s, nil
		}
	}
	return nil, domain.ErrSlotNotFound
}

func (r *memorySlotRepo) Create(ctx context.Context, slot *domain.Slot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.slots {
		if s.Number == slot.Number {
			return domain.ErrDuplicateSlot
		}
	}
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	r.store.slots[slot.ID] = *slot
	r.store.touch(slot.ID)
	return nil
}

func (r *memorySlotRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.slots[id]; !ok {
		return domain.ErrSlotNotFound
	}
	delete(r.store.slots, id)
	return nil
}

func (r *memorySlotRepo) SetStatus(ctx context.Context, id string, status domain.SlotStatus, activeBookingID *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.slots[id]
	if !ok {
		return domain.ErrSlotNotFound
	}
	s.Status = status
	s.ActiveBookingID = activeBookingID
	s.UpdatedAt = time.Now()
	r.store.slots[id] = s
	return nil
}

type memoryBookingRepo struct {
	store *MemoryStore
}

func (r *memoryBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[booking.SlotID]
	if !ok {
		return domain.ErrSlotNotFound
	}
	if slot.Status != domain.SlotStatusAvailable {
		return domain.ErrSlotNotAvailable
	}

	now := time.Now()
	booking.Status = domain.BookingStatusActive
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.store.bookings[booking.ID] = *booking
	r.store.touch(booking.ID)

	slot.Status = domain.SlotStatusReserved
	id := booking.ID
	slot.ActiveBookingID = &id
	slot.UpdatedAt = now
	r.store.slots[slot.ID] = slot
	return nil
}

func (r *memoryBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (r *memoryBookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bookings := make([]domain.Booking, 0, len(r.store.bookings))
	for _, b := range r.store.bookings {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		return r.store.seq[bookings[i].ID] > r.store.seq[bookings[j].ID]
	})
	return bookings, nil
}

func (r *memoryBookingRepo) Finish(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	r.store.bookings[id] = b

	if slot, ok := r.store.slots[b.SlotID]; ok {
		slot.Status = domain.SlotStatusAvailable
		slot.ActiveBookingID = nil
		slot.UpdatedAt = b.UpdatedAt
		r.store.slots[slot.ID] = slot
	}
	return &b, nil
}

func (r *memoryBookingRepo) FindActiveBySlot(ctx context.Context, slotID string) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, b := range r.store.bookings {
		if b.SlotID == slotID && b.Status == domain.BookingStatusActive {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryBookingRepo) CancelAllActive(ctx context.Context) ([]domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	var cancelled []domain.Booking
	for id, b := range r.store.bookings {
		if b.Status != domain.BookingStatusActive {
			continue
		}
		b.Status = domain.BookingStatusCancelled
		b.UpdatedAt = now
		r.store.bookings[id] = b
		cancelled = append(cancelled, b)
	}
	for id, s := range r.store.slots {
		if s.Status == domain.SlotStatusAvailable && s.ActiveBookingID == nil {
			continue
		}
		s.Status = domain.SlotStatusAvailable
		s.ActiveBookingID = nil
		s.UpdatedAt = now
		r.store.slots[id] = s
	}
	return cancelled, nil
}

type memoryReportRepo struct {
	store *MemoryStore
}

func (r *memoryReportRepo) Create(ctx context.Context, report *domain.Report) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	report.CreatedAt = time.Now()
	r.store.reports[report.ID] = *report
	r.store.touch(report.ID)
	return nil
}

func (r *memoryReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rep, ok := r.store.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return &rep, nil
}

func (r *memoryReportRepo) List(ctx context.Context) ([]domain.Report, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reports := make([]domain.Report, 0, len(r.store.reports))
	for _, rep := range r.store.reports {
		reports = append(reports, rep)
	}
	sort.Slice(reports, func(i, j int) bool {
		return r.store.seq[reports[i].ID] > r.store.seq[reports[j].ID]
	})
	return reports, nil
}

func (r *memoryReportRepo) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rep, ok := r.store.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	rep.Status = status
	r.store.reports[id] = rep
	return &rep, nil
}

var (
	_ SlotRepository    = (*memorySlotRepo)(nil)
	_ BookingRepository = (*memoryBookingRepo)(nil)
	_ ReportRepository  = (*memoryReportRepo)(nil)
)
