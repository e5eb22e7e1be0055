package repository

import (
	"context"
	"errors"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error)
}

type PGReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepository {
	return &PGReportRepository{db: db}
}

func (r *PGReportRepository) Create(ctx context.Context, report *domain.Report) error {
	return r.db.QueryRow(ctx, `INSERT INTO reports (id, slot_id, slot_number, reporter_name, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`, report.ID, report.SlotID, report.SlotNumber, report.ReporterName, report.Message, report.Status).
		Scan(&report.CreatedAt)
}

func (r *PGReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	row := r.db.QueryRow(ctx, `SELECT id, slot_id, slot_number, reporter_name, message, status, created_at FROM reports WHERE id=$1`, id)
	var rep domain.Report
	if err := row.Scan(&rep.ID, &rep.SlotID, &rep.SlotNumber, &rep.ReporterName, &rep.Message, &rep.Status, &rep.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *PGReportRepository) List(ctx context.Context) ([]domain.Report, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slot_id, slot_number, reporter_name, message, status, created_at FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]domain.Report, 0)
	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(&rep.ID, &rep.SlotID, &rep.SlotNumber, &rep.ReporterName, &rep.Message, &rep.Status, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *PGReportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	row := r.db.QueryRow(ctx, `UPDATE reports SET status=$1 WHERE id=$2 RETURNING id, slot_id, slot_number, reporter_name, message, status, created_at`, status, id)
	var rep domain.Report
	if err := row.Scan(&rep.ID, &rep.SlotID, &rep.SlotNumber, &rep.ReporterName, &rep.Message, &rep.Status, &rep.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

var _ ReportRepository = (*PGReportRepository)(nil)
