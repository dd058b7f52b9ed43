package documents

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/utils/distribution"
)

// RequisitionAdapter converts approved requisitions into purchase orders.
type RequisitionAdapter struct {
	validate *validator.Validate
}

func NewRequisitionAdapter() *RequisitionAdapter {
	return &RequisitionAdapter{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ConvertToPurchaseOrder spreads the requisitioned quantity across the
// requested delivery months. The split always sums back to the requested
// quantity, with the remainder loaded onto the earliest months.
func (a *RequisitionAdapter) ConvertToPurchaseOrder(req Requisition) (*PurchaseOrder, error) {
	if err := a.validate.Struct(req); err != nil {
		return nil, apperrors.NewAppError(400, "invalid requisition", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error()))
	}

	deliveries, err := distribution.SplitQuantity(req.Quantity, req.DeliveryMonths)
	if err != nil {
		return nil, err
	}

	return &PurchaseOrder{
		PONumber:      fmt.Sprintf("PO-%s", req.RequisitionNo),
		RequisitionNo: req.RequisitionNo,
		ItemCode:      req.ItemCode,
		Quantity:      req.Quantity,
		Deliveries:    deliveries,
	}, nil
}
