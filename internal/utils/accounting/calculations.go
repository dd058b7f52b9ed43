package accounting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// SignedAmount applies the correct sign to a line amount based on account type.
// This is used in both services and repositories to ensure consistent
// accounting logic.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	amount := line.Amount()
	if line.IsDebit() != accountType.IsDebitPositive() {
		amount = amount.Neg()
	}
	return amount, nil
}

// ValidateLineShape checks the structural invariants of a single line:
// an account reference and exactly one positive side.
func ValidateLineShape(line domain.JournalLine) error {
	if line.AccountID == "" {
		return fmt.Errorf("%w: line is missing an account reference", apperrors.ErrValidation)
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: line amounts must be non-negative for account %s", apperrors.ErrValidation, line.AccountID)
	}
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if debitSet == creditSet {
		return fmt.Errorf("%w: line for account %s must set exactly one of debit or credit", apperrors.ErrValidation, line.AccountID)
	}
	return nil
}

// ValidateBalance checks the fundamental double-entry invariant for an entry:
// at least two lines touching at least two distinct accounts, and total debits
// equal to total credits with both positive.
func ValidateBalance(entry *domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	}
	if entry.DistinctAccountCount() < 2 {
		return fmt.Errorf("%w: entry must touch at least two distinct accounts", apperrors.ErrValidation)
	}
	for _, line := range entry.Lines {
		if err := ValidateLineShape(line); err != nil {
			return err
		}
	}
	debit := decimal.Zero
	credit := decimal.Zero
	for _, line := range entry.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: entry does not balance: debits are %s, credits are %s",
			apperrors.ErrValidation, debit.String(), credit.String())
	}
	if !debit.IsPositive() {
		return fmt.Errorf("%w: entry totals must be positive", apperrors.ErrValidation)
	}
	return nil
}

// NextRunningBalance advances an account's running balance by one line per the
// sign convention.
func NextRunningBalance(prev decimal.Decimal, line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	signed, err := SignedAmount(line, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	return prev.Add(signed), nil
}

// SourceLine is one posted journal line touching an account, paired with the
// ledger row currently stored for it. The journal line carries the
// authoritative amounts; the stored row is only compared against, never
// trusted. Projected is nil when the line has no ledger row at all.
type SourceLine struct {
	LineID    string
	EntryID   string
	EntryDate time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Projected *ProjectedRow
}

// ProjectedRow is the stored ledger row for a source line.
type ProjectedRow struct {
	LedgerEntryID  string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	RunningBalance decimal.Decimal
	SequenceNo     int64
}

// ReplayedRow is one recomputed ledger row produced by Replay.
type ReplayedRow struct {
	// LedgerEntryID is empty when the row is missing from the projection and
	// must be created.
	LedgerEntryID string
	LineID        string
	EntryID       string
	EntryDate     time.Time
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	// SequenceNo is the recomputed gap-free sequence number (1-based).
	SequenceNo     int64
	RunningBalance decimal.Decimal
	// Drifted marks rows whose stored amounts, running balance or sequence
	// number differ from the replayed values.
	Drifted bool
	// Missing marks lines with no stored ledger row.
	Missing bool
}

// Replay recomputes an account's ledger log from zero out of the journal
// lines of its posted entries, which must be ordered by posting order. Rows
// are renumbered 1..n to close any gaps, amounts are taken from the journal
// lines so a corrupted stored amount is repaired rather than replayed, and
// lines with no stored row come back marked Missing. It is pure and
// deterministic: replaying the same lines twice yields identical results,
// which is what makes recalculation idempotent.
func Replay(accountType domain.AccountType, lines []SourceLine) ([]ReplayedRow, decimal.Decimal, error) {
	replayed := make([]ReplayedRow, 0, len(lines))
	balance := decimal.Zero
	for i, src := range lines {
		line := domain.JournalLine{
			Debit:  src.Debit,
			Credit: src.Credit,
		}
		next, err := NextRunningBalance(balance, line, accountType)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("replaying line %d (%s): %w", i, src.LineID, err)
		}
		balance = next
		seq := int64(i) + 1

		row := ReplayedRow{
			LineID:         src.LineID,
			EntryID:        src.EntryID,
			EntryDate:      src.EntryDate,
			Debit:          src.Debit,
			Credit:         src.Credit,
			SequenceNo:     seq,
			RunningBalance: balance,
		}
		if src.Projected == nil {
			row.Missing = true
			row.Drifted = true
		} else {
			row.LedgerEntryID = src.Projected.LedgerEntryID
			row.Drifted = src.Projected.SequenceNo != seq ||
				!src.Projected.RunningBalance.Equal(balance) ||
				!src.Projected.Debit.Equal(src.Debit) ||
				!src.Projected.Credit.Equal(src.Credit)
		}
		replayed = append(replayed, row)
	}
	return replayed, balance, nil
}
