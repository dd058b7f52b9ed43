package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// CreateLineRequest defines one line of a new journal entry. Exactly one of
// Debit/Credit must be positive; the structural check happens in the service
// because the constraint spans two fields.
type CreateLineRequest struct {
	AccountID   string          `json:"accountID" validate:"required"`
	Description string          `json:"description" validate:"max=512"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CreateEntryRequest defines the payload for creating a draft journal entry.
type CreateEntryRequest struct {
	Date         time.Time           `json:"date" validate:"required"`
	EntryType    domain.EntryType    `json:"entryType" validate:"omitempty,oneof=MANUAL ADJUSTMENT CLOSING EXPENSE_VOUCHER VENDOR_INVOICE"`
	Narration    string              `json:"narration" validate:"required,max=1024"`
	SourceType   string              `json:"sourceType" validate:"required_with=SourceNumber,max=32"`
	SourceNumber string              `json:"sourceNumber" validate:"required_with=SourceType,max=64"`
	Lines        []CreateLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// UpdateEntryRequest defines the editable fields of a DRAFT entry.
// Lines replace the existing set wholesale.
type UpdateEntryRequest struct {
	Date      time.Time           `json:"date" validate:"required"`
	Narration string              `json:"narration" validate:"required,max=1024"`
	Lines     []CreateLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// ListEntriesParams narrows and pages an entry listing.
type ListEntriesParams struct {
	Status     *domain.EntryStatus `json:"status,omitempty"`
	DateFrom   *time.Time          `json:"dateFrom,omitempty"`
	DateTo     *time.Time          `json:"dateTo,omitempty"`
	SourceType *string             `json:"sourceType,omitempty"`
	Limit      int                 `json:"limit,omitempty"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID         string            `json:"entryID"`
	EntryNo         string            `json:"entryNo"`
	Date            time.Time         `json:"date"`
	EntryType       string            `json:"entryType"`
	Source          *domain.SourceRef `json:"source,omitempty"`
	Narration       string            `json:"narration"`
	Status          string            `json:"status"`
	TotalDebit      decimal.Decimal   `json:"totalDebit"`
	TotalCredit     decimal.Decimal   `json:"totalCredit"`
	Lines           []LineResponse    `json:"lines,omitempty"`
	ApprovedBy      string            `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time        `json:"approvedAt,omitempty"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	CreatedBy       string            `json:"createdBy"`
}

// ListEntriesResponse is the paginated entry listing.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Description: l.Description,
		Debit:       l.Debit,
		Credit:      l.Credit,
	}
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i := range e.Lines {
		lines[i] = ToLineResponse(&e.Lines[i])
	}
	return EntryResponse{
		EntryID:         e.EntryID,
		EntryNo:         e.EntryNo,
		Date:            e.EntryDate,
		EntryType:       string(e.EntryType),
		Source:          e.Source,
		Narration:       e.Narration,
		Status:          string(e.Status),
		TotalDebit:      e.TotalDebit,
		TotalCredit:     e.TotalCredit,
		Lines:           lines,
		ApprovedBy:      e.ApprovedBy,
		ApprovedAt:      e.ApprovedAt,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}
