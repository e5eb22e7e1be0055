package repository

import (
	"context"
	"errors"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository interface {
	List(ctx context.Context) ([]domain.Slot, error)
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	GetByNumber(ctx context.Context, number string) (*domain.Slot, error)
	Create(ctx context.Context, slot *domain.Slot) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.SlotStatus, activeBookingID *string) error
}

type PGSlotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &PGSlotRepository{db: db}
}

func (r *PGSlotRepository) List(ctx context.Context) ([]domain.Slot, error) {
	rows, err := r.db.Query(ctx, `SELECT id, number, status, active_booking_id, created_at, updated_at FROM slots ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.Number, &s.Status, &s.ActiveBookingID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PGSlotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	row := r.db.QueryRow(ctx, `SELECT id, number, status, active_booking_id, created_at, updated_at FROM slots WHERE id=$1`, id)
	var s domain.Slot
	if err := row.Scan(&s.ID, &s.Number, &s.Status, &s.ActiveBookingID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSlotRepository) GetByNumber(ctx context.Context, number string) (*domain.Slot, error) {
	row := r.db.QueryRow(ctx, `SELECT id, number, status, active_booking_id, created_at, updated_at FROM slots WHERE number=$1`, number)
	var s domain.Slot
	if err := row.Scan(&s.ID, &s.Number, &s.Status, &s.ActiveBookingID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	err := r.db.QueryRow(ctx, `INSERT INTO slots (id, number, status)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`, slot.ID, slot.Number, slot.Status).
		Scan(&slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateSlot
		}
		return err
	}
	return nil
}

func (r *PGSlotRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM slots WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

func (r *PGSlotRepository) SetStatus(ctx context.Context, id string, status domain.SlotStatus, activeBookingID *string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE slots SET status=$1, active_booking_id=$2, updated_at=now() WHERE id=$3`, status, activeBookingID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

var _ SlotRepository = (*PGSlotRepository)(nil)
