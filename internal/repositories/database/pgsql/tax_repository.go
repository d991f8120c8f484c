package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	"github.com/rakibulmuhajir/haasib/internal/models"
	"github.com/rakibulmuhajir/haasib/internal/utils/mapping"
)

type PgxTaxRepository struct {
	BaseRepository
}

// newPgxTaxRepository creates a new repository for tax rules and presets.
func newPgxTaxRepository(pool *pgxpool.Pool) portsrepo.TaxRepositoryFacade {
	return &PgxTaxRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TaxRepositoryFacade = (*PgxTaxRepository)(nil)

const taxRuleColumns = `
	tax_rule_id, company_id, name, rate, conditions, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTaxRule(row pgx.Row) (models.TaxRule, error) {
	var m models.TaxRule
	err := row.Scan(
		&m.TaxRuleID,
		&m.CompanyID,
		&m.Name,
		&m.Rate,
		&m.Conditions,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTaxRule inserts a new tax rule. Conditions are stored as JSONB.
func (r *PgxTaxRepository) SaveTaxRule(ctx context.Context, rule domain.TaxRule) error {
	m, err := mapping.ToModelTaxRule(rule)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode tax rule "+rule.TaxRuleID, err)
	}
	query := `
		INSERT INTO tax_rules (
			tax_rule_id, company_id, name, rate, conditions, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.TaxRuleID,
		m.CompanyID,
		m.Name,
		m.Rate,
		m.Conditions,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert tax rule "+m.TaxRuleID, err)
	}
	return nil
}

// FindTaxRuleByID retrieves a tax rule by its ID.
func (r *PgxTaxRepository) FindTaxRuleByID(ctx context.Context, taxRuleID string) (*domain.TaxRule, error) {
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE tax_rule_id = $1;`

	m, err := scanTaxRule(r.Pool.QueryRow(ctx, query, taxRuleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tax rule "+taxRuleID, err)
	}

	rule, err := mapping.ToDomainTaxRule(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode tax rule "+taxRuleID, err)
	}
	return &rule, nil
}

// FindTaxRulesByIDs returns the company's rules for the given IDs. Missing
// IDs are simply absent from the result.
func (r *PgxTaxRepository) FindTaxRulesByIDs(ctx context.Context, companyID string, taxRuleIDs []string) ([]domain.TaxRule, error) {
	if len(taxRuleIDs) == 0 {
		return []domain.TaxRule{}, nil
	}

	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE company_id = $1 AND tax_rule_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, companyID, taxRuleIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax rules by IDs for company "+companyID, err)
	}
	defer rows.Close()

	return r.collectTaxRules(rows, companyID)
}

// ListTaxRulesByCompany retrieves the company's tax rules, optionally only
// the active ones.
func (r *PgxTaxRepository) ListTaxRulesByCompany(ctx context.Context, companyID string, activeOnly bool) ([]domain.TaxRule, error) {
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE company_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax rules for company "+companyID, err)
	}
	defer rows.Close()

	return r.collectTaxRules(rows, companyID)
}

func (r *PgxTaxRepository) collectTaxRules(rows pgx.Rows, companyID string) ([]domain.TaxRule, error) {
	rules := []domain.TaxRule{}
	for rows.Next() {
		m, scanErr := scanTaxRule(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax rule row for company "+companyID, scanErr)
		}
		rule, convErr := mapping.ToDomainTaxRule(m)
		if convErr != nil {
			return nil, apperrors.NewAppError(500, "failed to decode tax rule "+m.TaxRuleID, convErr)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax rule rows for company "+companyID, err)
	}
	return rules, nil
}

// SaveTaxPreset inserts or updates a preset. Rule IDs are stored as JSONB.
func (r *PgxTaxRepository) SaveTaxPreset(ctx context.Context, preset domain.TaxPreset) error {
	m, err := mapping.ToModelTaxPreset(preset)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode tax preset "+preset.TaxPresetID, err)
	}
	query := `
		INSERT INTO tax_presets (
			tax_preset_id, company_id, name, tax_rule_ids,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tax_preset_id) DO UPDATE SET
			name = EXCLUDED.name,
			tax_rule_ids = EXCLUDED.tax_rule_ids,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = r.Pool.Exec(ctx, query,
		m.TaxPresetID,
		m.CompanyID,
		m.Name,
		m.TaxRuleIDs,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save tax preset "+m.TaxPresetID, err)
	}
	return nil
}

// FindTaxPresetByID retrieves a tax preset by its ID.
func (r *PgxTaxRepository) FindTaxPresetByID(ctx context.Context, taxPresetID string) (*domain.TaxPreset, error) {
	query := `
		SELECT tax_preset_id, company_id, name, tax_rule_ids,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM tax_presets
		WHERE tax_preset_id = $1;
	`
	var m models.TaxPreset
	err := r.Pool.QueryRow(ctx, query, taxPresetID).Scan(
		&m.TaxPresetID,
		&m.CompanyID,
		&m.Name,
		&m.TaxRuleIDs,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tax preset "+taxPresetID, err)
	}

	preset, err := mapping.ToDomainTaxPreset(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode tax preset "+taxPresetID, err)
	}
	return &preset, nil
}
