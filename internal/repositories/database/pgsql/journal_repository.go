package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portsrepo "github.com/verdanterp/ledger_core/internal/core/ports/repositories"
	"github.com/verdanterp/ledger_core/internal/models"
	"github.com/verdanterp/ledger_core/internal/utils/mapping"
	"github.com/verdanterp/ledger_core/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry and line data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_no, entry_date, entry_type, source_type, source_number, narration, status,
	total_debit, total_credit, approved_by, approved_at, rejection_reason,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNo,
		&m.EntryDate,
		&m.EntryType,
		&m.SourceType,
		&m.SourceNumber,
		&m.Narration,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.RejectionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const insertLineQuery = `
	INSERT INTO journal_lines (line_id, entry_id, account_id, description, debit_amount, credit_amount, position, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

func queueLineInserts(batch *pgx.Batch, lines []domain.JournalLine) {
	for _, line := range lines {
		m := mapping.ToModelLine(line)
		batch.Queue(insertLineQuery,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.Description,
			m.Debit,
			m.Credit,
			m.Position,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
}

// SaveEntry persists a new draft entry and its lines within a DB transaction,
// assigning the next sequential entry number onto the passed entry. Numbers
// come from a dedicated sequence so they are never reused, even for entries
// that are later deleted.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('journal_entry_no_seq');`).Scan(&seq); err != nil {
		return apperrors.NewAppError(500, "failed to allocate entry number", err)
	}
	entry.EntryNo = fmt.Sprintf("JE-%06d", seq)

	m := mapping.ToModelEntry(*entry)
	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, entry_no, entry_date, entry_type, source_type, source_number, narration, status,
			total_debit, total_credit, approved_by, approved_at, rejection_reason,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryNo,
		m.EntryDate,
		m.EntryType,
		m.SourceType,
		m.SourceNumber,
		m.Narration,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.ApprovedBy,
		m.ApprovedAt,
		m.RejectionReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, entry.Lines)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry with its lines ordered by position.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}
	entry := mapping.ToDomainEntry(*m)

	lines, err := r.findLines(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, description, debit_amount, credit_amount, position, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY position;
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
			&l.Description,
			&l.Debit,
			&l.Credit,
			&l.Position,
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
	return mapping.ToDomainLineSlice(lines), nil
}

// ListEntries retrieves a filtered, paginated list of entries (headers only)
// using token-based pagination over (created_at, entry_id).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []interface{}{}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}

	if filter.Status != nil {
		addArg("status = $%d", string(*filter.Status))
	}
	if filter.DateFrom != nil {
		addArg("entry_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addArg("entry_date <= $%d", *filter.DateTo)
	}
	if filter.SourceType != nil {
		addArg("source_type = $%d", *filter.SourceType)
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*filter.NextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		lastCreatedAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastCreatedAt, fields[1])
		query += fmt.Sprintf(" AND (created_at, entry_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, entry_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journal entries", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, mapping.ToDomainEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var nextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.EntryID)
		nextToken = &token
	}
	return entries, nextToken, nil
}

// UpdateDraftEntry replaces the mutable fields and lines of a DRAFT entry.
// The status guard on the header update is the optimistic concurrency check:
// an entry that left DRAFT since it was read fails with ErrConcurrencyConflict.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEntry(entry)
	headerQuery := `
		UPDATE journal_entries
		SET entry_date = $2, narration = $3, total_debit = $4, total_credit = $5, last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1 AND status = $8;
	`
	tag, err := tx.Exec(ctx, headerQuery,
		m.EntryID,
		m.EntryDate,
		m.Narration,
		m.TotalDebit,
		m.TotalCredit,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(domain.Draft),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal entry "+m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, tx, m.EntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, entry.Lines)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// TransitionStatus atomically moves an entry between workflow states with a
// compare-and-set on the status column.
func (r *PgxJournalRepository) TransitionStatus(ctx context.Context, entryID string, from, to domain.EntryStatus, update portsrepo.StatusUpdate) error {
	query := `
		UPDATE journal_entries
		SET status = $3,
		    approved_by = COALESCE(NULLIF($4, ''), approved_by),
		    approved_at = COALESCE($5, approved_at),
		    rejection_reason = COALESCE(NULLIF($6, ''), rejection_reason),
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE entry_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		entryID,
		string(from),
		string(to),
		update.ApprovedBy,
		update.ApprovedAt,
		update.RejectionReason,
		update.UpdatedAt,
		update.UpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to transition journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, nil, entryID)
	}
	return nil
}

// DeleteEntry removes an entry guarded by the expected status. Lines go with
// it via the FK cascade.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string, from domain.EntryStatus) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = $2;`, entryID, string(from))
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, nil, entryID)
	}
	return nil
}

// conflictOrNotFound distinguishes a missing entry from a stale status guard.
// When tx is nil the check runs on the pool.
func (r *PgxJournalRepository) conflictOrNotFound(ctx context.Context, tx pgx.Tx, entryID string) error {
	var current string
	var err error
	query := `SELECT status FROM journal_entries WHERE entry_id = $1;`
	if tx != nil {
		err = tx.QueryRow(ctx, query, entryID).Scan(&current)
	} else {
		err = r.Pool.QueryRow(ctx, query, entryID).Scan(&current)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to read status for entry "+entryID, err)
	}
	return fmt.Errorf("%w: entry %s is now %s", apperrors.ErrConcurrencyConflict, entryID, current)
}
