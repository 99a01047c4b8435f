package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	"github.com/salesmatrix/accounting_backend/internal/models"
	"github.com/salesmatrix/accounting_backend/internal/utils/mapping"
	"github.com/salesmatrix/accounting_backend/internal/utils/pagination"
)

const uniqueViolationCode = "23505"

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendEntry writes the entry, its lines, its idempotency record, and the
// account balance cache updates in a single database transaction. A
// concurrent writer holding the same (tenant, key) pair trips the unique
// constraint on the record insert; the whole transaction rolls back and the
// violation is surfaced as apperrors.ErrDuplicate.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry, record domain.IdempotencyRecord, balanceChanges map[string]int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored if the transaction commits

	// Entry before record: the record row carries a foreign key to the entry.
	if err := r.insertEntryWithLines(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertIdempotencyRecord(ctx, tx, record); err != nil {
		return err
	}
	if err := r.applyBalanceChanges(ctx, tx, entry, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// AppendReversal writes the reversing entry and flips the original to
// REVERSED atomically. The status flip is guarded by WHERE status = 'POSTED';
// zero rows affected means another reversal won the race and the caller gets
// apperrors.ErrConflict.
func (r *PgxLedgerRepository) AppendReversal(ctx context.Context, reversing domain.JournalEntry, record domain.IdempotencyRecord, balanceChanges map[string]int64, originalEntryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryWithLines(ctx, tx, reversing); err != nil {
		return err
	}
	if err := r.insertIdempotencyRecord(ctx, tx, record); err != nil {
		return err
	}

	flipQuery := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversing_entry_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $4 AND tenant_id = $5 AND status = 'POSTED';
	`
	tag, err := tx.Exec(ctx, flipQuery,
		reversing.EntryID,
		reversing.CreatedAt,
		reversing.CreatedBy,
		originalEntryID,
		reversing.TenantID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry "+originalEntryID+" as reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := r.applyBalanceChanges(ctx, tx, reversing, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLedgerRepository) insertIdempotencyRecord(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error {
	modelRecord := mapping.ToModelIdempotencyKey(record)
	query := `
		INSERT INTO idempotency_keys (tenant_id, idempotency_key, fingerprint, entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, query,
		modelRecord.TenantID,
		modelRecord.Key,
		modelRecord.Fingerprint,
		modelRecord.EntryID,
		modelRecord.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert idempotency record for key "+record.Key, err)
	}
	return nil
}

func (r *PgxLedgerRepository) insertEntryWithLines(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	modelEntry := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, tenant_id, source_type, source_document_id, entry_date, description,
			currency_code, status, idempotency_key, original_entry_id, reversing_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.TenantID,
		modelEntry.SourceType,
		modelEntry.SourceDocumentID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.CurrencyCode,
		modelEntry.Status,
		modelEntry.IdempotencyKey,
		modelEntry.OriginalEntryID,
		modelEntry.ReversingEntryID,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (
			line_id, entry_id, tenant_id, account_id, side, amount_minor, currency_code, description,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, line := range entry.Lines {
		modelLine := mapping.ToModelJournalLine(line, entry.TenantID)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.TenantID,
			modelLine.AccountID,
			modelLine.Side,
			modelLine.AmountMinor,
			modelLine.CurrencyCode,
			modelLine.Description,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) applyBalanceChanges(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, balanceChanges map[string]int64) error {
	query := `
		UPDATE accounts
		SET balance_minor = balance_minor + $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4 AND tenant_id = $5;
	`
	for accountID, delta := range balanceChanges {
		tag, err := tx.Exec(ctx, query, delta, entry.CreatedAt, entry.CreatedBy, accountID, entry.TenantID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update balance for account "+accountID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewAppError(500, "account "+accountID+" not found during balance update", nil)
		}
	}
	return nil
}

// FindEntryByID retrieves an entry with its lines, scoped to the tenant.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, tenant_id, source_type, source_document_id, entry_date, description,
		       currency_code, status, idempotency_key, original_entry_id, reversing_entry_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE entry_id = $1 AND tenant_id = $2;
	`
	return r.scanEntryWithLines(ctx, r.Pool.QueryRow(ctx, query, entryID, tenantID), tenantID)
}

// FindEntryByIdempotencyKey retrieves the entry a key previously produced,
// with its lines. The lookup goes through idempotency_keys so reversal keys
// resolve too.
func (r *PgxLedgerRepository) FindEntryByIdempotencyKey(ctx context.Context, tenantID string, key string) (*domain.JournalEntry, error) {
	query := `
		SELECT e.entry_id, e.tenant_id, e.source_type, e.source_document_id, e.entry_date, e.description,
		       e.currency_code, e.status, e.idempotency_key, e.original_entry_id, e.reversing_entry_id,
		       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM journal_entries e
		JOIN idempotency_keys k ON k.entry_id = e.entry_id AND k.tenant_id = e.tenant_id
		WHERE k.tenant_id = $1 AND k.idempotency_key = $2;
	`
	return r.scanEntryWithLines(ctx, r.Pool.QueryRow(ctx, query, tenantID, key), tenantID)
}

func (r *PgxLedgerRepository) scanEntryWithLines(ctx context.Context, row pgx.Row, tenantID string) (*domain.JournalEntry, error) {
	modelEntry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry", err)
	}

	lines, err := r.findLinesByEntryID(ctx, tenantID, modelEntry.EntryID)
	if err != nil {
		return nil, err
	}

	domainEntry := mapping.ToDomainJournalEntry(*modelEntry)
	domainEntry.Lines = lines
	return &domainEntry, nil
}

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	var sourceDocID, originalID, reversingID sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.SourceType,
		&sourceDocID,
		&m.EntryDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.IdempotencyKey,
		&originalID,
		&reversingID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if sourceDocID.Valid {
		m.SourceDocumentID = &sourceDocID.String
	}
	if originalID.Valid {
		m.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingEntryID = &reversingID.String
	}
	return &m, nil
}

func (r *PgxLedgerRepository) findLinesByEntryID(ctx context.Context, tenantID string, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, tenant_id, account_id, side, amount_minor, currency_code, description,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1 AND tenant_id = $2
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	modelLines, err := scanLines(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan lines for entry "+entryID, err)
	}
	return mapping.ToDomainJournalLineSlice(modelLines), nil
}

func scanLines(rows pgx.Rows) ([]models.JournalLine, error) {
	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.TenantID,
			&l.AccountID,
			&l.Side,
			&l.AmountMinor,
			&l.CurrencyCode,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListEntries retrieves a paginated list of entries for a tenant using
// token-based pagination, newest first. Entries are returned without lines.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to decide whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT entry_id, tenant_id, source_type, source_document_id, entry_date, description,
		       currency_code, status, idempotency_key, original_entry_id, reversing_entry_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE tenant_id = $1
	`
	if !includeReversals {
		baseQuery += ` AND status = 'POSTED' AND original_entry_id IS NULL`
	}
	// Stable newest-first ordering; created_at breaks same-date ties.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []interface{}{tenantID}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelEntries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	var newNextToken *string
	if len(modelEntries) == fetchLimit {
		modelEntries = modelEntries[:limit]
		last := modelEntries[len(modelEntries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		newNextToken = &token
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, newNextToken, nil
}

// QueryLines retrieves journal lines in posted order (entry date ascending,
// then posted timestamp) with token pagination. Reversed entries stay
// visible; the ledger never hides history.
func (r *PgxLedgerRepository) QueryLines(ctx context.Context, tenantID string, q portsrepo.LineQuery) ([]domain.JournalLine, *string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.tenant_id, l.account_id, l.side, l.amount_minor, l.currency_code, l.description,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
		       e.entry_date
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id AND e.tenant_id = l.tenant_id
		WHERE l.tenant_id = $1
	`
	args := []interface{}{tenantID}

	if q.AccountID != nil {
		args = append(args, *q.AccountID)
		baseQuery += ` AND l.account_id = $` + strconv.Itoa(len(args))
	}
	if q.From != nil {
		args = append(args, *q.From)
		baseQuery += ` AND e.entry_date >= $` + strconv.Itoa(len(args))
	}
	if q.To != nil {
		args = append(args, *q.To)
		baseQuery += ` AND e.entry_date <= $` + strconv.Itoa(len(args))
	}

	if q.NextToken != nil && *q.NextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*q.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastEntryDate, lastCreatedAt)
		baseQuery += ` AND (e.entry_date, l.created_at) > ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY e.entry_date ASC, l.created_at ASC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger lines for tenant "+tenantID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	entryDates := []time.Time{}
	for rows.Next() {
		var l models.JournalLine
		var entryDate time.Time
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.TenantID,
			&l.AccountID,
			&l.Side,
			&l.AmountMinor,
			&l.CurrencyCode,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
			&entryDate,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger line row", err)
		}
		lines = append(lines, l)
		entryDates = append(entryDates, entryDate)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger line rows", err)
	}

	var newNextToken *string
	if len(lines) == fetchLimit {
		lines = lines[:limit]
		last := len(lines) - 1
		token := pagination.EncodeToken(entryDates[last], lines[last].CreatedAt)
		newNextToken = &token
	}

	return mapping.ToDomainJournalLineSlice(lines), newNextToken, nil
}

// FindIdempotencyRecord returns the record for a key, or apperrors.ErrNotFound.
func (r *PgxLedgerRepository) FindIdempotencyRecord(ctx context.Context, tenantID string, key string) (*domain.IdempotencyRecord, error) {
	query := `
		SELECT tenant_id, idempotency_key, fingerprint, entry_id, created_at
		FROM idempotency_keys
		WHERE tenant_id = $1 AND idempotency_key = $2;
	`
	var m models.IdempotencyKey
	err := r.Pool.QueryRow(ctx, query, tenantID, key).Scan(
		&m.TenantID,
		&m.Key,
		&m.Fingerprint,
		&m.EntryID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find idempotency record for key "+key, err)
	}

	record := mapping.ToDomainIdempotencyRecord(m)
	return &record, nil
}
