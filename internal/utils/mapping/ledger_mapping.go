package mapping

import (
	"github.com/verdanterp/ledger_core/internal/core/domain"
	"github.com/verdanterp/ledger_core/internal/models"
)

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerEntryID:  m.LedgerEntryID,
		AccountID:      m.AccountID,
		EntryID:        m.EntryID,
		LineID:         m.LineID,
		EntryDate:      m.EntryDate,
		Debit:          m.Debit,
		Credit:         m.Credit,
		RunningBalance: m.RunningBalance,
		SequenceNo:     m.SequenceNo,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts model ledger rows to domain rows
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		entries[i] = ToDomainLedgerEntry(m)
	}
	return entries
}
