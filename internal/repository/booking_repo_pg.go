package repository

import (
	"context"
	"errors"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Create inserts an ACTIVE booking and reserves its slot in the same
	// transaction. The slot must currently be AVAILABLE.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	// Finish moves a booking to a terminal status and frees its slot, if the
	// slot still exists, in the same transaction.
	Finish(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	// FindActiveBySlot returns nil, nil when the slot has no active booking.
	FindActiveBySlot(ctx context.Context, slotID string) (*domain.Booking, error)
	// CancelAllActive cancels every ACTIVE booking and frees every slot in a
	// single transaction. Returns the bookings that were cancelled.
	CancelAllActive(ctx context.Context) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE slots SET status=$1, active_booking_id=$2, updated_at=now() WHERE id=$3 AND status=$4`,
		domain.SlotStatusReserved, booking.ID, booking.SlotID, domain.SlotStatusAvailable)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM slots WHERE id=$1)`, booking.SlotID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrSlotNotFound
		}
		return domain.ErrSlotNotAvailable
	}

	booking.Status = domain.BookingStatusActive
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, slot_id, customer_name, vehicle_number, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`, booking.ID, booking.SlotID, booking.CustomerName, booking.VehicleNumber, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, slot_id, customer_name, vehicle_number, status, created_at, updated_at FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.SlotID, &b.CustomerName, &b.VehicleNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slot_id, customer_name, vehicle_number, status, created_at, updated_at FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.SlotID, &b.CustomerName, &b.VehicleNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Finish(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING id, slot_id, customer_name, vehicle_number, status, created_at, updated_at`, status, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.SlotID, &b.CustomerName, &b.VehicleNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	// The slot may have been removed after the booking went terminal earlier;
	// freeing a missing slot is not an error.
	if _, err := tx.Exec(ctx, `UPDATE slots SET status=$1, active_booking_id=NULL, updated_at=now() WHERE id=$2`,
		domain.SlotStatusAvailable, b.SlotID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) FindActiveBySlot(ctx context.Context, slotID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, slot_id, customer_name, vehicle_number, status, created_at, updated_at FROM bookings WHERE slot_id=$1 AND status=$2`, slotID, domain.BookingStatusActive)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.SlotID, &b.CustomerName, &b.VehicleNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CancelAllActive(ctx context.Context) ([]domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 RETURNING id, slot_id, customer_name, vehicle_number, status, created_at, updated_at`,
		domain.BookingStatusCancelled, domain.BookingStatusActive)
	if err != nil {
		return nil, err
	}

	var cancelled []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.SlotID, &b.CustomerName, &b.VehicleNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		cancelled = append(cancelled, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE slots SET status=$1, active_booking_id=NULL, updated_at=now() WHERE status <> $1`,
		domain.SlotStatusAvailable); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return cancelled, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
