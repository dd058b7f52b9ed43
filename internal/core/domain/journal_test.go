package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

func entryWithLines(lines ...domain.JournalLine) domain.JournalEntry {
	e := domain.JournalEntry{Lines: lines}
	e.RecomputeTotals()
	return e
}

func TestRecomputeTotals(t *testing.T) {
	e := entryWithLines(
		domain.JournalLine{AccountID: "cash", Debit: decimal.NewFromInt(600)},
		domain.JournalLine{AccountID: "cash", Debit: decimal.NewFromInt(400)},
		domain.JournalLine{AccountID: "sales", Credit: decimal.NewFromInt(1000)},
	)

	assert.True(t, e.TotalDebit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, e.TotalCredit.Equal(decimal.NewFromInt(1000)))
}

func TestIsBalanced(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.JournalEntry
		want  bool
	}{
		{
			"equal totals",
			entryWithLines(
				domain.JournalLine{AccountID: "cash", Debit: decimal.NewFromInt(100)},
				domain.JournalLine{AccountID: "sales", Credit: decimal.NewFromInt(100)},
			),
			true,
		},
		{
			"unequal totals",
			entryWithLines(
				domain.JournalLine{AccountID: "cash", Debit: decimal.NewFromInt(100)},
				domain.JournalLine{AccountID: "sales", Credit: decimal.NewFromInt(90)},
			),
			false,
		},
		{"zero totals", entryWithLines(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsBalanced())
		})
	}
}

func TestDistinctAccountCount(t *testing.T) {
	e := entryWithLines(
		domain.JournalLine{AccountID: "cash", Debit: decimal.NewFromInt(50)},
		domain.JournalLine{AccountID: "cash", Debit: decimal.NewFromInt(50)},
		domain.JournalLine{AccountID: "sales", Credit: decimal.NewFromInt(100)},
	)

	assert.Equal(t, 2, e.DistinctAccountCount())
}

func TestEntryTypeIsValid(t *testing.T) {
	assert.True(t, domain.Manual.IsValid())
	assert.True(t, domain.ExpenseVoucher.IsValid())
	assert.False(t, domain.EntryType("PETTY_CASH").IsValid())
}
