package reports

import (
	"context"
	"strings"
	"sync"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/repository"
	"github.com/google/uuid"
)

type ReportUseCase interface {
	SubmitReport(ctx context.Context, input SubmitReportInput) (*domain.Report, error)
	ResolveReport(ctx context.Context, id string) (*domain.Report, error)
	ListReports(ctx context.Context) ([]domain.Report, error)
}

type SubmitReportInput struct {
	SlotID       string `json:"slot_id"`
	ReporterName string `json:"reporter_name"`
	Message      string `json:"message"`
}

type ReportService struct {
	reports repository.ReportRepository
	slots   repository.SlotRepository
	mu      *sync.Mutex
}

func NewReportService(reports repository.ReportRepository, slots repository.SlotRepository, mu *sync.Mutex) *ReportService {
	return &ReportService{reports: reports, slots: slots, mu: mu}
}

func (s *ReportService) SubmitReport(ctx context.Context, input SubmitReportInput) (*domain.Report, error) {
	reporterName := strings.TrimSpace(input.ReporterName)
	message := strings.TrimSpace(input.Message)
	if reporterName == "" || message == "" {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slots.GetByID(ctx, input.SlotID)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:           uuid.NewString(),
		SlotID:       slot.ID,
		SlotNumber:   slot.Number,
		ReporterName: reporterName,
		Message:      message,
		Status:       domain.ReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ResolveReport(ctx context.Context, id string) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.ReportStatusResolved {
		return current, nil
	}
	return s.reports.UpdateStatus(ctx, id, domain.ReportStatusResolved)
}

func (s *ReportService) ListReports(ctx context.Context) ([]domain.Report, error) {
	return s.reports.List(ctx)
}

var _ ReportUseCase = (*ReportService)(nil)
