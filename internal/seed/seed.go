package seed

import (
	"context"
	"errors"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/repository"
	"github.com/google/uuid"
)

// StatusFunc decides the seeded status of the i-th slot. Seeding is fully
// deterministic given the same count and function.
type StatusFunc func(i int) domain.SlotStatus

// AllAvailable seeds every slot empty.
func AllAvailable(int) domain.SlotStatus {
	return domain.SlotStatusAvailable
}

// EveryNth marks every n-th slot with the given status and leaves the rest
// available.
func EveryNth(n int, status domain.SlotStatus) StatusFunc {
	return func(i int) domain.SlotStatus {
		if n > 0 && (i+1)%n == 0 {
			return status
		}
		return domain.SlotStatusAvailable
	}
}

// Slots produces count seeded slots labeled row by row: A1..A8, B1..B8, and
// so on, eight per row.
func Slots(count int, statusFor StatusFunc) []domain.Slot {
	slots := make([]domain.Slot, 0, count)
	for i := 0; i < count; i++ {
		slots = append(slots, domain.Slot{
			ID:     uuid.NewString(),
			Number: Label(i),
			Status: statusFor(i),
		})
	}
	return slots
}

// Label returns the display label of the i-th seeded slot.
func Label(i int) string {
	row := rune('A' + i/8)
	return string(row) + string(rune('1'+i%8))
}

// Apply writes seeded slots into an empty store. Existing numbers are left
// alone so reseeding an already-populated store is safe.
func Apply(ctx context.Context, repo repository.SlotRepository, slots []domain.Slot) error {
	for i := range slots {
		if err := repo.Create(ctx, &slots[i]); err != nil {
			if errors.Is(err, domain.ErrDuplicateSlot) {
				continue
			}
			return err
		}
	}
	return nil
}
