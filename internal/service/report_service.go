package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

// ReportRepo é a visão que os serviços têm do repositório de denúncias.
type ReportRepo interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Report, error)
	Resolve(ctx context.Context, id, reviewerID uuid.UUID, status string) error
}

var validReportTargets = map[string]struct{}{
	models.ReportTargetUser:    {},
	models.ReportTargetListing: {},
	models.ReportTargetMessage: {},
}

var validReportResolutions = map[string]struct{}{
	models.ReportStatusReviewed:    {},
	models.ReportStatusActionTaken: {},
	models.ReportStatusDismissed:   {},
}

type ReportService struct {
	reports   ReportRepo
	publisher EventPublisher
}

func NewReportService(reports ReportRepo, publisher EventPublisher) *ReportService {
	return &ReportService{reports: reports, publisher: publisher}
}

// Create abre uma denúncia para a fila de moderação.
func (s *ReportService) Create(ctx context.Context, reporterID uuid.UUID, targetType string, targetID uuid.UUID, reason string, description *string) (*models.Report, error) {
	if _, ok := validReportTargets[targetType]; !ok {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "alvo de denúncia inválido: %s", targetType)
	}
	if err := validation.ValidateLength("motivo", reason, validation.MinReportReasonLength, validation.MaxReportReasonLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	report := &models.Report{
		ReporterID:  reporterID,
		TargetType:  targetType,
		TargetID:    targetID,
		Reason:      reason,
		Description: description,
		Status:      models.ReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao registrar denúncia")
	}
	s.publisher.Publish(ctx, "report.created", report)
	return report, nil
}

// List devolve a fila de denúncias para a moderação.
func (s *ReportService) List(ctx context.Context, requesterRole, status string, limit, offset int) ([]models.Report, error) {
	if requesterRole != models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "ação restrita à moderação")
	}
	reports, err := s.reports.List(ctx, status, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar denúncias")
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// Resolve registra o desfecho de uma denúncia pendente.
func (s *ReportService) Resolve(ctx context.Context, reportID, adminID uuid.UUID, requesterRole, status string) error {
	if requesterRole != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeForbidden, "ação restrita à moderação")
	}
	if _, ok := validReportResolutions[status]; !ok {
		return apperror.Newf(apperror.ErrCodeValidation, "desfecho de denúncia inválido: %s", status)
	}
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return apperror.ErrReportNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao resolver denúncia")
	}
	if report.Status != models.ReportStatusPending {
		return apperror.New(apperror.ErrCodeInvalidState, "a denúncia já foi resolvida")
	}
	if err := s.reports.Resolve(ctx, reportID, adminID, status); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao resolver denúncia")
	}
	s.publisher.Publish(ctx, "report.resolved", map[string]interface{}{
		"report_id": reportID,
		"status":    status,
	})
	return nil
}
