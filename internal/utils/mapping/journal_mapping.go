package mapping

import (
	"github.com/verdanterp/ledger_core/internal/core/domain"
	"github.com/verdanterp/ledger_core/internal/models"
)

// ToModelEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:     d.EntryID,
		EntryNo:     d.EntryNo,
		EntryDate:   d.EntryDate,
		EntryType:   models.EntryType(d.EntryType),
		Narration:   d.Narration,
		Status:      models.EntryStatus(d.Status),
		TotalDebit:  d.TotalDebit,
		TotalCredit: d.TotalCredit,
		ApprovedAt:  d.ApprovedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.Source != nil {
		m.SourceType = &d.Source.Type
		m.SourceNumber = &d.Source.Number
	}
	if d.ApprovedBy != "" {
		m.ApprovedBy = &d.ApprovedBy
	}
	if d.RejectionReason != "" {
		m.RejectionReason = &d.RejectionReason
	}
	return m
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry header
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryNo:     m.EntryNo,
		EntryDate:   m.EntryDate,
		EntryType:   domain.EntryType(m.EntryType),
		Narration:   m.Narration,
		Status:      domain.EntryStatus(m.Status),
		TotalDebit:  m.TotalDebit,
		TotalCredit: m.TotalCredit,
		ApprovedAt:  m.ApprovedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.SourceType != nil && m.SourceNumber != nil {
		d.Source = &domain.SourceRef{Type: *m.SourceType, Number: *m.SourceNumber}
	}
	if m.ApprovedBy != nil {
		d.ApprovedBy = *m.ApprovedBy
	}
	if m.RejectionReason != nil {
		d.RejectionReason = *m.RejectionReason
	}
	return d
}

// ToModelLine converts a domain JournalLine to a model JournalLine
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Description: d.Description,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Position:    d.Position,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model JournalLine to a domain JournalLine
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Position:    m.Position,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts model lines to domain lines
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		lines[i] = ToDomainLine(m)
	}
	return lines
}
