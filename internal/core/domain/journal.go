package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates where a journal entry sits in the approval workflow.
type EntryStatus string

const (
	Draft           EntryStatus = "DRAFT"
	PendingApproval EntryStatus = "PENDING_APPROVAL"
	Approved        EntryStatus = "APPROVED"
	Posted          EntryStatus = "POSTED"
	Rejected        EntryStatus = "REJECTED"
)

// EntryType categorizes how a journal entry originated.
type EntryType string

const (
	Manual         EntryType = "MANUAL"
	Adjustment     EntryType = "ADJUSTMENT"
	Closing        EntryType = "CLOSING"
	ExpenseVoucher EntryType = "EXPENSE_VOUCHER"
	VendorInvoice  EntryType = "VENDOR_INVOICE"
)

// IsValid reports whether the entry type is one of the known types.
func (t EntryType) IsValid() bool {
	switch t {
	case Manual, Adjustment, Closing, ExpenseVoucher, VendorInvoice:
		return true
	}
	return false
}

// SourceRef points back at the external document a journal entry was derived
// from, e.g. {Type: "EXPENSE", Number: "VOU-0042"}.
type SourceRef struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// JournalEntry represents a single, balanced financial event composed of two
// or more lines. Lines are immutable once the entry leaves DRAFT.
type JournalEntry struct {
	EntryID   string        `json:"entryID"`   // Primary Key (UUID)
	EntryNo   string        `json:"entryNo"`   // Sequential human-readable number, assigned at creation, never reused
	EntryDate time.Time     `json:"entryDate"` // Business date; may differ from CreatedAt
	EntryType EntryType     `json:"entryType"`
	Source    *SourceRef    `json:"source,omitempty"` // Nullable back-reference to the originating document
	Narration string        `json:"narration"`
	Status    EntryStatus   `json:"status"`
	Lines     []JournalLine `json:"lines,omitempty"`
	// Totals are derived from lines and recomputed on every write, never trusted from input.
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	ApprovedBy      string          `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	AuditFields
}

// IsBalanced reports whether total debits equal total credits and both are positive.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit) && e.TotalDebit.IsPositive()
}

// RecomputeTotals sums the line amounts into TotalDebit/TotalCredit.
// It is the only way totals are ever set.
func (e *JournalEntry) RecomputeTotals() {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	e.TotalDebit = debit
	e.TotalCredit = credit
}

// DistinctAccountCount returns the number of distinct accounts touched by the entry's lines.
func (e *JournalEntry) DistinctAccountCount() int {
	seen := make(map[string]struct{}, len(e.Lines))
	for _, line := range e.Lines {
		seen[line.AccountID] = struct{}{}
	}
	return len(seen)
}
