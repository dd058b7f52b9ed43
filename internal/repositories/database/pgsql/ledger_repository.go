package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portsrepo "github.com/verdanterp/ledger_core/internal/core/ports/repositories"
	"github.com/verdanterp/ledger_core/internal/models"
	"github.com/verdanterp/ledger_core/internal/utils/accounting"
	"github.com/verdanterp/ledger_core/internal/utils/mapping"
	"github.com/verdanterp/ledger_core/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the per-account posting log.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// lockedAccount is the slice of account state needed while holding the row lock.
type lockedAccount struct {
	accountType    domain.AccountType
	isActive       bool
	balance        decimal.Decimal
	nextSequenceNo int64
}

// lockAccounts selects the given accounts FOR UPDATE. IDs are sorted before
// locking so two posts touching the same accounts acquire the locks in the
// same order.
func lockAccounts(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]*lockedAccount, error) {
	sorted := make([]string, len(accountIDs))
	copy(sorted, accountIDs)
	sort.Strings(sorted)

	query := `
		SELECT account_id, account_type, is_active, balance, next_sequence_no
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock accounts for posting", err)
	}
	defer rows.Close()

	locked := make(map[string]*lockedAccount, len(sorted))
	for rows.Next() {
		var id string
		la := &lockedAccount{}
		if err := rows.Scan(&id, &la.accountType, &la.isActive, &la.balance, &la.nextSequenceNo); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked account row", err)
		}
		locked[id] = la
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked account rows", err)
	}
	return locked, nil
}

const insertLedgerQuery = `
	INSERT INTO ledger_entries (ledger_entry_id, account_id, entry_id, line_id, entry_date, debit, credit, running_balance, sequence_no, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// AppendForEntry materializes every line of an approved journal entry into the
// ledger as one all-or-nothing unit and flips the entry to POSTED. The status
// flip runs first inside the transaction so a concurrent post of the same
// entry fails the compare-and-set instead of double-appending.
func (r *PgxLedgerRepository) AppendForEntry(ctx context.Context, entry domain.JournalEntry, accountTypes map[string]domain.AccountType, update portsrepo.StatusUpdate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	statusQuery := `
		UPDATE journal_entries
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $2;
	`
	tag, err := tx.Exec(ctx, statusQuery,
		entry.EntryID,
		string(domain.Approved),
		string(domain.Posted),
		update.UpdatedAt,
		update.UpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry posted "+entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		if err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1;`, entry.EntryID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to read status for entry "+entry.EntryID, err)
		}
		return fmt.Errorf("%w: entry %s is now %s", apperrors.ErrConcurrencyConflict, entry.EntryID, current)
	}

	accountIDs := make([]string, 0, len(accountTypes))
	for id := range accountTypes {
		accountIDs = append(accountIDs, id)
	}
	locked, err := lockAccounts(ctx, tx, accountIDs)
	if err != nil {
		return err
	}
	// Re-check references under the lock: an account deactivated while the
	// entry sat in the approval queue aborts the whole post.
	for _, id := range accountIDs {
		la, ok := locked[id]
		if !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidReference, id)
		}
		if !la.isActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrInvalidReference, id)
		}
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		la := locked[line.AccountID]
		newBalance, err := accounting.NextRunningBalance(la.balance, line, la.accountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to compute running balance for line "+line.LineID, err)
		}
		seq := la.nextSequenceNo
		la.balance = newBalance
		la.nextSequenceNo++

		row := models.LedgerEntry{
			LedgerEntryID:  uuid.NewString(),
			AccountID:      line.AccountID,
			EntryID:        entry.EntryID,
			LineID:         line.LineID,
			EntryDate:      entry.EntryDate,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: newBalance,
			SequenceNo:     seq,
			CreatedAt:      now,
		}
		batch.Queue(insertLedgerQuery,
			row.LedgerEntryID,
			row.AccountID,
			row.EntryID,
			row.LineID,
			row.EntryDate,
			row.Debit,
			row.Credit,
			row.RunningBalance,
			row.SequenceNo,
			row.CreatedAt,
		)
	}

	balanceQuery := `
		UPDATE accounts
		SET balance = $2, next_sequence_no = $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1;
	`
	for _, id := range accountIDs {
		la := locked[id]
		batch.Queue(balanceQuery, id, la.balance, la.nextSequenceNo, update.UpdatedAt, update.UpdatedBy)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to append ledger rows for entry "+entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// RecalculateAccount rebuilds one account's ledger log from the journal lines
// of its posted entries, under the account's row lock so no post can
// interleave. The journal is the source of truth: stored rows with a drifted
// amount, running balance or sequence number are overwritten, lines missing
// from the projection are re-materialized, and ledger rows whose journal line
// is gone or no longer posted are removed.
func (r *PgxLedgerRepository) RecalculateAccount(ctx context.Context, accountID string) (domain.AccountRecalcResult, error) {
	var result domain.AccountRecalcResult

	tx, err := r.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer r.Rollback(ctx, tx)

	var code string
	var accountType domain.AccountType
	var oldBalance decimal.Decimal
	lockQuery := `
		SELECT code, account_type, balance
		FROM accounts
		WHERE account_id = $1
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, lockQuery, accountID).Scan(&code, &accountType, &oldBalance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return result, apperrors.ErrNotFound
		}
		return result, apperrors.NewAppError(500, "failed to lock account "+accountID, err)
	}

	orphanQuery := `
		DELETE FROM ledger_entries le
		WHERE le.account_id = $1
		  AND NOT EXISTS (
			SELECT 1
			FROM journal_lines jl
			JOIN journal_entries je ON je.entry_id = jl.entry_id
			WHERE jl.line_id = le.line_id AND je.status = $2
		  );
	`
	orphanTag, err := tx.Exec(ctx, orphanQuery, accountID, string(domain.Posted))
	if err != nil {
		return result, apperrors.NewAppError(500, "failed to remove orphaned ledger rows for account "+accountID, err)
	}
	rowsDeleted := int(orphanTag.RowsAffected())

	// Posting order is the existing sequence numbering; lines that never made
	// it into the projection sort to the end in entry creation order.
	sourceQuery := `
		SELECT jl.line_id, jl.entry_id, jl.debit, jl.credit, je.entry_date,
		       le.ledger_entry_id, le.debit, le.credit, le.running_balance, le.sequence_no
		FROM journal_lines jl
		JOIN journal_entries je ON je.entry_id = jl.entry_id
		LEFT JOIN ledger_entries le ON le.line_id = jl.line_id
		WHERE jl.account_id = $1 AND je.status = $2
		ORDER BY le.sequence_no ASC NULLS LAST, je.created_at ASC, jl.position ASC;
	`
	rows, err := tx.Query(ctx, sourceQuery, accountID, string(domain.Posted))
	if err != nil {
		return result, apperrors.NewAppError(500, "failed to query posted lines for account "+accountID, err)
	}

	source := []accounting.SourceLine{}
	for rows.Next() {
		var src accounting.SourceLine
		var ledgerEntryID *string
		var storedDebit, storedCredit, storedBalance *decimal.Decimal
		var storedSeq *int64
		err := rows.Scan(
			&src.LineID,
			&src.EntryID,
			&src.Debit,
			&src.Credit,
			&src.EntryDate,
			&ledgerEntryID,
			&storedDebit,
			&storedCredit,
			&storedBalance,
			&storedSeq,
		)
		if err != nil {
			rows.Close()
			return result, apperrors.NewAppError(500, "failed to scan posted line for account "+accountID, err)
		}
		if ledgerEntryID != nil {
			src.Projected = &accounting.ProjectedRow{
				LedgerEntryID:  *ledgerEntryID,
				Debit:          *storedDebit,
				Credit:         *storedCredit,
				RunningBalance: *storedBalance,
				SequenceNo:     *storedSeq,
			}
		}
		source = append(source, src)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return result, apperrors.NewAppError(500, "error iterating posted lines for account "+accountID, err)
	}

	replayed, newBalance, err := accounting.Replay(accountType, source)
	if err != nil {
		return result, apperrors.NewAppError(500, "failed to replay ledger for account "+accountID, err)
	}

	now := time.Now().UTC()
	rowsFixed := rowsDeleted
	batch := &pgx.Batch{}
	fixQuery := `UPDATE ledger_entries SET debit = $2, credit = $3, running_balance = $4, sequence_no = $5 WHERE ledger_entry_id = $1;`
	for _, row := range replayed {
		if !row.Drifted {
			continue
		}
		rowsFixed++
		if row.Missing {
			batch.Queue(insertLedgerQuery,
				uuid.NewString(),
				accountID,
				row.EntryID,
				row.LineID,
				row.EntryDate,
				row.Debit,
				row.Credit,
				row.RunningBalance,
				row.SequenceNo,
				now,
			)
			continue
		}
		batch.Queue(fixQuery, row.LedgerEntryID, row.Debit, row.Credit, row.RunningBalance, row.SequenceNo)
	}

	balanceDrifted := !newBalance.Equal(oldBalance)
	if rowsFixed > 0 || balanceDrifted {
		fixAccountQuery := `UPDATE accounts SET balance = $2, next_sequence_no = $3 WHERE account_id = $1;`
		batch.Queue(fixAccountQuery, accountID, newBalance, int64(len(replayed))+1)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return result, apperrors.NewAppError(500, "failed to write recomputed rows for account "+accountID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return result, err
	}

	return domain.AccountRecalcResult{
		AccountID:   accountID,
		AccountCode: code,
		OldBalance:  oldBalance,
		NewBalance:  newBalance,
		RowsChecked: len(source),
		RowsFixed:   rowsFixed,
		Fixed:       rowsFixed > 0 || balanceDrifted,
	}, nil
}

// ListLedgerEntries retrieves a page of an account's ledger rows ordered by
// sequence number, with the last sequence number as the pagination cursor.
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `
		SELECT ledger_entry_id, account_id, entry_id, line_id, entry_date, debit, credit, running_balance, sequence_no, created_at
		FROM ledger_entries
		WHERE account_id = $1
	`
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 1 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		lastSeq, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastSeq)
		query += fmt.Sprintf(" AND sequence_no > $%d", len(args))
	}

	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY sequence_no LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		err := rows.Scan(
			&m.LedgerEntryID,
			&m.AccountID,
			&m.EntryID,
			&m.LineID,
			&m.EntryDate,
			&m.Debit,
			&m.Credit,
			&m.RunningBalance,
			&m.SequenceNo,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger rows", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		t := pagination.EncodeMultiFieldToken(strconv.FormatInt(entries[limit-1].SequenceNo, 10))
		token = &t
	}
	return mapping.ToDomainLedgerEntrySlice(entries), token, nil
}
