package documents

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/dto"
)

// VendorInvoiceConfig names the accounts shared by every invoice accrual.
type VendorInvoiceConfig struct {
	// PayableAccountID is credited with the gross invoice total.
	PayableAccountID string
	// TaxAccountID is debited with the recoverable tax amount, when present.
	TaxAccountID string
}

// VendorInvoiceAdapter accrues matched supplier invoices as journal entries.
// It only drafts and submits; approval stays with a human because invoice
// amounts come from outside the system.
type VendorInvoiceAdapter struct {
	journal  portssvc.JournalSvcFacade
	workflow portssvc.WorkflowSvcFacade
	cfg      VendorInvoiceConfig
	validate *validator.Validate
}

func NewVendorInvoiceAdapter(journal portssvc.JournalSvcFacade, workflow portssvc.WorkflowSvcFacade, cfg VendorInvoiceConfig) *VendorInvoiceAdapter {
	return &VendorInvoiceAdapter{
		journal:  journal,
		workflow: workflow,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// PostInvoice drafts and submits the accrual entry: debit each charge account
// and the tax account, credit accounts payable with the gross total.
func (a *VendorInvoiceAdapter) PostInvoice(ctx context.Context, invoice VendorInvoice, actorUserID string) (*domain.JournalEntry, error) {
	if err := a.validate.Struct(invoice); err != nil {
		return nil, apperrors.NewAppError(400, "invalid vendor invoice", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error()))
	}
	if invoice.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: tax amount cannot be negative", apperrors.ErrValidation)
	}

	gross := decimal.Zero
	lines := make([]dto.CreateLineRequest, 0, len(invoice.Charges)+2)
	for _, charge := range invoice.Charges {
		if !charge.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: charge amount for account %s must be positive", apperrors.ErrValidation, charge.AccountID)
		}
		description := charge.Description
		if description == "" {
			description = fmt.Sprintf("Invoice %s from %s", invoice.InvoiceNo, invoice.VendorName)
		}
		lines = append(lines, dto.CreateLineRequest{
			AccountID:   charge.AccountID,
			Description: description,
			Debit:       charge.Amount,
		})
		gross = gross.Add(charge.Amount)
	}
	if invoice.TaxAmount.IsPositive() {
		if a.cfg.TaxAccountID == "" {
			return nil, fmt.Errorf("%w: no tax account configured for taxed invoice %s", apperrors.ErrInvalidReference, invoice.InvoiceNo)
		}
		lines = append(lines, dto.CreateLineRequest{
			AccountID:   a.cfg.TaxAccountID,
			Description: fmt.Sprintf("Input tax, invoice %s", invoice.InvoiceNo),
			Debit:       invoice.TaxAmount,
		})
		gross = gross.Add(invoice.TaxAmount)
	}
	lines = append(lines, dto.CreateLineRequest{
		AccountID:   a.cfg.PayableAccountID,
		Description: fmt.Sprintf("Payable to %s, invoice %s", invoice.VendorName, invoice.InvoiceNo),
		Credit:      gross,
	})

	entry, err := a.journal.CreateEntry(ctx, dto.CreateEntryRequest{
		Date:         invoice.Date,
		EntryType:    domain.VendorInvoice,
		Narration:    fmt.Sprintf("Vendor invoice %s (%s)", invoice.InvoiceNo, invoice.VendorName),
		SourceType:   "INVOICE",
		SourceNumber: invoice.InvoiceNo,
		Lines:        lines,
	}, actorUserID)
	if err != nil {
		return nil, err
	}

	return a.workflow.Submit(ctx, entry.EntryID, actorUserID)
}
