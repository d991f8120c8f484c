package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	"github.com/rakibulmuhajir/haasib/internal/models"
	"github.com/rakibulmuhajir/haasib/internal/utils/mapping"
)

type PgxPostingTemplateRepository struct {
	BaseRepository
}

// newPgxPostingTemplateRepository creates a new repository for posting
// template data.
func newPgxPostingTemplateRepository(pool *pgxpool.Pool) portsrepo.PostingTemplateRepositoryFacade {
	return &PgxPostingTemplateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PostingTemplateRepositoryFacade = (*PgxPostingTemplateRepository)(nil)

const postingTemplateColumns = `
	template_id, company_id, name, doc_type, version, effective_from, effective_to,
	is_default, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanPostingTemplate(row pgx.Row) (models.PostingTemplate, error) {
	var m models.PostingTemplate
	err := row.Scan(
		&m.TemplateID,
		&m.CompanyID,
		&m.Name,
		&m.DocType,
		&m.Version,
		&m.EffectiveFrom,
		&m.EffectiveTo,
		&m.IsDefault,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTemplate inserts the template and its lines atomically. When the
// template is marked default it clears the default flag on every other
// template for the same (company, doc type) in the same transaction.
func (r *PgxPostingTemplateRepository) SaveTemplate(ctx context.Context, template domain.PostingTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPostingTemplate(template)

	if m.IsDefault {
		clearQuery := `
			UPDATE posting_templates
			SET is_default = FALSE,
			    last_updated_at = $3,
			    last_updated_by = $4
			WHERE company_id = $1 AND doc_type = $2 AND is_default = TRUE;
		`
		if _, err := tx.Exec(ctx, clearQuery, m.CompanyID, m.DocType, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
			return apperrors.NewAppError(500, "failed to clear default flag for doc type "+m.DocType, err)
		}
	}

	insertQuery := `
		INSERT INTO posting_templates (
			template_id, company_id, name, doc_type, version, effective_from, effective_to,
			is_default, is_active, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.TemplateID,
		m.CompanyID,
		m.Name,
		m.DocType,
		m.Version,
		m.EffectiveFrom,
		m.EffectiveTo,
		m.IsDefault,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert posting template "+m.TemplateID, err)
	}

	lineQuery := `
		INSERT INTO posting_template_lines (template_line_id, template_id, role, account_id, precedence, required)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, line := range template.Lines {
		ml := mapping.ToModelPostingTemplateLine(line)
		batch.Queue(lineQuery,
			ml.TemplateLineID,
			ml.TemplateID,
			ml.Role,
			ml.AccountID,
			ml.Precedence,
			ml.Required,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for template "+m.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

// findLinesByTemplateIDs fetches lines for the given templates keyed by
// template ID, ordered by precedence within each template.
func (r *PgxPostingTemplateRepository) findLinesByTemplateIDs(ctx context.Context, templateIDs []string) (map[string][]domain.PostingTemplateLine, error) {
	if len(templateIDs) == 0 {
		return map[string][]domain.PostingTemplateLine{}, nil
	}

	query := `
		SELECT template_line_id, template_id, role, account_id, precedence, required
		FROM posting_template_lines
		WHERE template_id = ANY($1)
		ORDER BY template_id, precedence;
	`
	rows, err := r.Pool.Query(ctx, query, templateIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query template lines", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.PostingTemplateLine)
	for rows.Next() {
		var l models.PostingTemplateLine
		err := rows.Scan(
			&l.TemplateLineID,
			&l.TemplateID,
			&l.Role,
			&l.AccountID,
			&l.Precedence,
			&l.Required,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template line row", err)
		}
		linesMap[l.TemplateID] = append(linesMap[l.TemplateID], mapping.ToDomainPostingTemplateLine(l))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template line rows", err)
	}
	return linesMap, nil
}

// FindTemplateByID returns the template with lines populated.
func (r *PgxPostingTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.PostingTemplate, error) {
	query := `SELECT ` + postingTemplateColumns + ` FROM posting_templates WHERE template_id = $1;`

	m, err := scanPostingTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find posting template "+templateID, err)
	}

	template := mapping.ToDomainPostingTemplate(m)
	linesMap, err := r.findLinesByTemplateIDs(ctx, []string{templateID})
	if err != nil {
		return nil, err
	}
	template.Lines = linesMap[templateID]
	return &template, nil
}

// FindEffectiveDefault returns the active default template for
// (company, doc type) effective at asOf. The highest version wins when
// several are effective.
func (r *PgxPostingTemplateRepository) FindEffectiveDefault(ctx context.Context, companyID string, docType domain.DocType, asOf time.Time) (*domain.PostingTemplate, error) {
	query := `
		SELECT ` + postingTemplateColumns + `
		FROM posting_templates
		WHERE company_id = $1 AND doc_type = $2 AND is_default = TRUE AND is_active = TRUE
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to > $3)
		ORDER BY version DESC
		LIMIT 1;
	`
	m, err := scanPostingTemplate(r.Pool.QueryRow(ctx, query, companyID, string(docType), asOf))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find default template for doc type "+string(docType), err)
	}

	template := mapping.ToDomainPostingTemplate(m)
	linesMap, err := r.findLinesByTemplateIDs(ctx, []string{template.TemplateID})
	if err != nil {
		return nil, err
	}
	template.Lines = linesMap[template.TemplateID]
	return &template, nil
}

// ListTemplatesByCompany retrieves every template of the company with lines
// populated, newest version first within each doc type.
func (r *PgxPostingTemplateRepository) ListTemplatesByCompany(ctx context.Context, companyID string) ([]domain.PostingTemplate, error) {
	query := `SELECT ` + postingTemplateColumns + ` FROM posting_templates WHERE company_id = $1 ORDER BY doc_type, version DESC;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query templates for company "+companyID, err)
	}
	defer rows.Close()

	modelTemplates := []models.PostingTemplate{}
	for rows.Next() {
		m, scanErr := scanPostingTemplate(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template row for company "+companyID, scanErr)
		}
		modelTemplates = append(modelTemplates, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template rows for company "+companyID, err)
	}

	templateIDs := make([]string, len(modelTemplates))
	for i, m := range modelTemplates {
		templateIDs[i] = m.TemplateID
	}
	linesMap, err := r.findLinesByTemplateIDs(ctx, templateIDs)
	if err != nil {
		return nil, err
	}

	templates := make([]domain.PostingTemplate, len(modelTemplates))
	for i, m := range modelTemplates {
		templates[i] = mapping.ToDomainPostingTemplate(m)
		templates[i].Lines = linesMap[m.TemplateID]
	}
	return templates, nil
}

// DeactivateTemplate flips is_active off so the template stops resolving
// without losing its history.
func (r *PgxPostingTemplateRepository) DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error {
	query := `
		UPDATE posting_templates
		SET is_active = FALSE,
		    is_default = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE template_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, templateID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate template "+templateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
