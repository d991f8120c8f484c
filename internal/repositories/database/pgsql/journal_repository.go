package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	"github.com/rakibulmuhajir/haasib/internal/models"
	"github.com/rakibulmuhajir/haasib/internal/utils/mapping"
	"github.com/rakibulmuhajir/haasib/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalEntryColumns = `
	entry_id, company_id, entry_date, description, reference, currency_code, status,
	source_type, source_id, void_reason, voided_by, voided_at,
	reversal_of_entry_id, reversed_by_entry_id, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

const insertJournalEntryQuery = `
	INSERT INTO journal_entries (
		entry_id, company_id, entry_date, description, reference, currency_code, status,
		source_type, source_id, void_reason, voided_by, voided_at,
		reversal_of_entry_id, reversed_by_entry_id, posted_at, posted_by,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`

const insertJournalLineQuery = `
	INSERT INTO journal_lines (
		line_id, entry_id, account_id, debit_amount, credit_amount, line_number, description,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

// insertEntryWithLines inserts the entry row and queues all line inserts on
// tx. A unique violation means a posted entry for the same source already
// exists (partial unique index on company_id, source_type, source_id).
func (r *PgxJournalRepository) insertEntryWithLines(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	m := mapping.ToModelJournalEntry(entry)
	_, err := tx.Exec(ctx, insertJournalEntryQuery,
		m.EntryID,
		m.CompanyID,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.CurrencyCode,
		m.Status,
		m.SourceType,
		m.SourceID,
		m.VoidReason,
		m.VoidedBy,
		m.VoidedAt,
		m.ReversalOfEntryID,
		m.ReversedByEntryID,
		m.PostedAt,
		m.PostedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a posted entry already exists for source %s/%s", apperrors.ErrDuplicate, entry.SourceType, entry.SourceID)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(insertJournalLineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.DebitAmount,
			ml.CreditAmount,
			ml.LineNumber,
			ml.Description,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert journal lines for entry "+m.EntryID, err)
	}
	return nil
}

// SaveJournalEntry inserts the entry and all its lines in one database transaction.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryWithLines(ctx, tx, entry, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryDate,
		&m.Description,
		&m.Reference,
		&m.CurrencyCode,
		&m.Status,
		&m.SourceType,
		&m.SourceID,
		&m.VoidReason,
		&m.VoidedBy,
		&m.VoidedAt,
		&m.ReversalOfEntryID,
		&m.ReversedByEntryID,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntryByID retrieves a journal entry by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of a journal entry in line order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit_amount, credit_amount, line_number, description,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_number;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.LineNumber,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

// MarkEntryPosted transitions a DRAFT entry to POSTED. The status guard lives
// in the UPDATE predicate so a concurrent post loses the race cleanly.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED',
		    posted_at = $2,
		    posted_by = $3,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, postedAt, postedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a posted entry already exists for this source", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to post journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in DRAFT status", apperrors.ErrNotPostable, entryID)
	}
	return nil
}

// SaveReversalAndVoid atomically inserts the posted reversing entry with its
// lines and flips the original entry to VOID. Either both happen or neither.
func (r *PgxJournalRepository) SaveReversalAndVoid(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalEntryID string, reason string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryWithLines(ctx, tx, reversal, lines); err != nil {
		return err
	}

	voidQuery := `
		UPDATE journal_entries
		SET status = 'VOID',
		    void_reason = $2,
		    voided_by = $3,
		    voided_at = $4,
		    reversed_by_entry_id = $5,
		    last_updated_at = $4,
		    last_updated_by = $3
		WHERE entry_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, voidQuery, originalEntryID, reason, userID, now, reversal.EntryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void journal entry "+originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Lost a race: the original was voided or never posted.
		return fmt.Errorf("%w: entry %s is not in POSTED status", apperrors.ErrConflict, originalEntryID)
	}

	return r.Commit(ctx, tx)
}

// FindPostedEntryBySource returns the posted entry recorded for a source
// document, or apperrors.ErrNotFound.
func (r *PgxJournalRepository) FindPostedEntryBySource(ctx context.Context, companyID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND source_type = $2 AND source_id = $3 AND status = 'POSTED';
	`
	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, companyID, string(sourceType), sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find posted entry for source "+string(sourceType)+"/"+sourceID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// ledgerVisibleStatuses is the entry status predicate shared by the balance
// sums and the account activity listing, so the listing always reconciles to
// the reported balance. A voided original and its posted reversal both appear
// and cancel arithmetically.
const ledgerVisibleStatuses = `e.status IN ('POSTED', 'VOID')`

// AccountTotals sums debits and credits for one account up to and including
// asOf. Draft entries never contribute; a reversal and its voided original
// cancel through the sums rather than being filtered out.
func (r *PgxJournalRepository) AccountTotals(ctx context.Context, companyID string, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.company_id = $1 AND l.account_id = $2 AND ` + ledgerVisibleStatuses + `
	`
	args := []interface{}{companyID, accountID}
	if asOf != nil {
		query += ` AND e.entry_date <= $3`
		args = append(args, *asOf)
	}
	query += ";"

	var totalDebit, totalCredit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&totalDebit, &totalCredit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum totals for account "+accountID, err)
	}
	return totalDebit, totalCredit, nil
}

// ListEntriesByCompany retrieves a paginated list of journal entries using
// token-based pagination ordered by (entry_date, created_at) descending.
func (r *PgxJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE company_id = $1`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []interface{}{companyID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for company "+companyID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanJournalEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row for company "+companyID, scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows for company "+companyID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

// ListLinesByAccount retrieves a paginated list of lines touching one
// account, newest entry first. It shows the same lines AccountTotals sums.
func (r *PgxJournalRepository) ListLinesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit_amount, l.credit_amount, l.line_number, l.description,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, e.entry_date
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.company_id = $1 AND l.account_id = $2 AND ` + ledgerVisibleStatuses + `
	`
	orderByClause := `ORDER BY e.entry_date DESC, l.created_at DESC`

	args := []interface{}{companyID, accountID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (e.entry_date, l.created_at) < ($3, $4)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	type lineWithDate struct {
		line      models.JournalLine
		entryDate time.Time
	}
	scanned := make([]lineWithDate, 0, fetchLimit)
	for rows.Next() {
		var l models.JournalLine
		var entryDate time.Time
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.LineNumber,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
			&entryDate,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		scanned = append(scanned, lineWithDate{line: l, entryDate: entryDate})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := scanned
	if len(scanned) > limit {
		last := scanned[limit-1]
		token := pagination.EncodeToken(last.entryDate, last.line.CreatedAt)
		nextTokenVal = &token
		results = scanned[:limit]
	}

	lines := make([]domain.JournalLine, len(results))
	for i, s := range results {
		lines[i] = mapping.ToDomainJournalLine(s.line)
	}
	return lines, nextTokenVal, nil
}

// DeleteDraftEntry removes a draft entry and its lines. The status predicate
// guards against deleting an entry that was posted concurrently.
func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, companyID string, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}

	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM journal_entries WHERE entry_id = $1 AND company_id = $2 AND status = 'DRAFT';`,
		entryID, companyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not a deletable draft", apperrors.ErrConflict, entryID)
	}

	return r.Commit(ctx, tx)
}
