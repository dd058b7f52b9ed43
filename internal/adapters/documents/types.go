// Package documents bridges upstream business documents (expense vouchers,
// vendor invoices, purchase requisitions) into journal entries and purchase
// orders. Adapters never touch the ledger directly; they compose lines and
// hand them to the journal and workflow services like any other caller.
package documents

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/utils/distribution"
)

// ExpenseBreakdownLine is one category's share of an expense voucher.
type ExpenseBreakdownLine struct {
	Category string          `json:"category" validate:"required,max=64"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

// ExpenseVoucher is a settled employee or petty-cash expense claim.
type ExpenseVoucher struct {
	VoucherNo string                 `json:"voucherNo" validate:"required,max=64"`
	Date      time.Time              `json:"date" validate:"required"`
	Payee     string                 `json:"payee" validate:"required,max=128"`
	Narration string                 `json:"narration" validate:"max=1024"`
	Breakdown []ExpenseBreakdownLine `json:"breakdown" validate:"required,min=1,dive"`
}

// InvoiceCharge is one expense or inventory charge on a vendor invoice,
// already resolved to a GL account by the matching process upstream.
type InvoiceCharge struct {
	AccountID   string          `json:"accountID" validate:"required"`
	Description string          `json:"description" validate:"max=512"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
}

// VendorInvoice is a matched supplier invoice ready for accrual.
type VendorInvoice struct {
	InvoiceNo  string          `json:"invoiceNo" validate:"required,max=64"`
	VendorName string          `json:"vendorName" validate:"required,max=128"`
	Date       time.Time       `json:"date" validate:"required"`
	Charges    []InvoiceCharge `json:"charges" validate:"required,min=1,dive"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
}

// Requisition is an approved purchase requisition awaiting conversion.
type Requisition struct {
	RequisitionNo  string   `json:"requisitionNo" validate:"required,max=64"`
	ItemCode       string   `json:"itemCode" validate:"required,max=64"`
	Quantity       int64    `json:"quantity" validate:"required,gt=0"`
	DeliveryMonths []string `json:"deliveryMonths" validate:"required,min=1,dive,required"`
}

// PurchaseOrder is the converted form of a requisition, with the ordered
// quantity spread across the requested delivery months.
type PurchaseOrder struct {
	PONumber      string                         `json:"poNumber"`
	RequisitionNo string                         `json:"requisitionNo"`
	ItemCode      string                         `json:"itemCode"`
	Quantity      int64                          `json:"quantity"`
	Deliveries    []distribution.MonthlyQuantity `json:"deliveries"`
}
