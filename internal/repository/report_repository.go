package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository/common"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reporter_id, target_type, target_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		report.ReporterID, report.TargetType, report.TargetID,
		report.Reason, report.Description, report.Status,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return common.GetByID[models.Report](ctx, r.db, "reports", id, ErrReportNotFound)
}

// List devolve denúncias para a fila de moderação; status vazio lista todas.
func (r *ReportRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var reports []models.Report
	var err error
	if status != "" {
		err = r.db.SelectContext(ctx, &reports, `
			SELECT * FROM reports WHERE status = $1
			ORDER BY created_at ASC
			LIMIT $2 OFFSET $3
		`, status, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &reports, `
			SELECT * FROM reports
			ORDER BY created_at ASC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("report repository: list %w", err)
	}
	return reports, nil
}

// Resolve registra o desfecho dado pelo administrador.
func (r *ReportRepository) Resolve(ctx context.Context, id, reviewerID uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports SET status = $2, reviewed_by = $3, reviewed_at = NOW() WHERE id = $1
	`, id, status, reviewerID)
	if err != nil {
		return fmt.Errorf("report repository: resolve %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReportNotFound
	}
	return nil
}
