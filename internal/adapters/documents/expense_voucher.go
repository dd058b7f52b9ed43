package documents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/dto"
	"github.com/verdanterp/ledger_core/internal/platform/logging"
)

// ExpenseVoucherConfig maps voucher categories onto GL accounts and sets the
// auto-approval policy.
type ExpenseVoucherConfig struct {
	// CategoryAccounts maps a voucher category to the expense account debited
	// for it. A voucher naming an unmapped category is rejected.
	CategoryAccounts map[string]string
	// PayableAccountID is credited with the voucher total.
	PayableAccountID string
	// CategoryThresholds sets, per category, the amount strictly below which a
	// breakdown line needs no human review. A voucher is auto approved only
	// when every line clears its category's threshold; a category with no
	// threshold always requires review.
	CategoryThresholds map[string]decimal.Decimal
	// SystemApproverID is the actor used for auto approval. It must differ
	// from the submitting user or the approval step is skipped and the entry
	// stays pending.
	SystemApproverID string
}

// ExpenseVoucherAdapter turns settled expense vouchers into journal entries.
type ExpenseVoucherAdapter struct {
	journal  portssvc.JournalSvcFacade
	workflow portssvc.WorkflowSvcFacade
	cfg      ExpenseVoucherConfig
	validate *validator.Validate
}

func NewExpenseVoucherAdapter(journal portssvc.JournalSvcFacade, workflow portssvc.WorkflowSvcFacade, cfg ExpenseVoucherConfig) *ExpenseVoucherAdapter {
	return &ExpenseVoucherAdapter{
		journal:  journal,
		workflow: workflow,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// PostVoucher drafts and submits a journal entry for the voucher: one debit
// line per breakdown category and a single credit to the payable account.
// Vouchers whose every line is below its category's threshold are approved
// and posted by the system approver in the same call; everything else waits
// for a human.
func (a *ExpenseVoucherAdapter) PostVoucher(ctx context.Context, voucher ExpenseVoucher, actorUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	if err := a.validate.Struct(voucher); err != nil {
		return nil, apperrors.NewAppError(400, "invalid expense voucher", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error()))
	}

	total := decimal.Zero
	autoApprove := true
	lines := make([]dto.CreateLineRequest, 0, len(voucher.Breakdown)+1)
	for _, item := range voucher.Breakdown {
		if !item.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: breakdown amount for category %s must be positive", apperrors.ErrValidation, item.Category)
		}
		accountID, ok := a.cfg.CategoryAccounts[item.Category]
		if !ok {
			return nil, fmt.Errorf("%w: no GL account mapped for category %s", apperrors.ErrInvalidReference, item.Category)
		}
		threshold, ok := a.cfg.CategoryThresholds[item.Category]
		if !ok || item.Amount.GreaterThanOrEqual(threshold) {
			autoApprove = false
		}
		lines = append(lines, dto.CreateLineRequest{
			AccountID:   accountID,
			Description: fmt.Sprintf("%s expense, voucher %s", item.Category, voucher.VoucherNo),
			Debit:       item.Amount,
		})
		total = total.Add(item.Amount)
	}
	lines = append(lines, dto.CreateLineRequest{
		AccountID:   a.cfg.PayableAccountID,
		Description: fmt.Sprintf("Payable to %s, voucher %s", voucher.Payee, voucher.VoucherNo),
		Credit:      total,
	})

	narration := voucher.Narration
	if narration == "" {
		narration = fmt.Sprintf("Expense voucher %s (%s)", voucher.VoucherNo, voucher.Payee)
	}

	entry, err := a.journal.CreateEntry(ctx, dto.CreateEntryRequest{
		Date:         voucher.Date,
		EntryType:    domain.ExpenseVoucher,
		Narration:    narration,
		SourceType:   "EXPENSE",
		SourceNumber: voucher.VoucherNo,
		Lines:        lines,
	}, actorUserID)
	if err != nil {
		return nil, err
	}

	entry, err = a.workflow.Submit(ctx, entry.EntryID, actorUserID)
	if err != nil {
		return nil, err
	}

	if !autoApprove {
		return entry, nil
	}
	if a.cfg.SystemApproverID == "" || a.cfg.SystemApproverID == actorUserID {
		logger.Warn("Skipping auto approval: no distinct system approver configured",
			slog.String("voucherNo", voucher.VoucherNo))
		return entry, nil
	}

	if _, err := a.workflow.Approve(ctx, entry.EntryID, a.cfg.SystemApproverID); err != nil {
		return nil, fmt.Errorf("auto approval of voucher %s failed: %w", voucher.VoucherNo, err)
	}
	entry, err = a.workflow.Post(ctx, entry.EntryID, a.cfg.SystemApproverID)
	if err != nil {
		return nil, fmt.Errorf("auto posting of voucher %s failed: %w", voucher.VoucherNo, err)
	}
	logger.Info("Expense voucher auto posted",
		slog.String("voucherNo", voucher.VoucherNo),
		slog.String("entryNo", entry.EntryNo),
		slog.String("total", total.String()))
	return entry, nil
}
