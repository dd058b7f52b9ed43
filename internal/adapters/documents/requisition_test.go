package documents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdanterp/ledger_core/internal/adapters/documents"
	"github.com/verdanterp/ledger_core/internal/apperrors"
)

func TestConvertToPurchaseOrder_SplitsAcrossMonths(t *testing.T) {
	adapter := documents.NewRequisitionAdapter()

	po, err := adapter.ConvertToPurchaseOrder(documents.Requisition{
		RequisitionNo:  "REQ-3300",
		ItemCode:       "WIDGET-9",
		Quantity:       17,
		DeliveryMonths: []string{"2026-03", "2026-01", "2026-02", "2026-05", "2026-04"},
	})

	require.NoError(t, err)
	assert.Equal(t, "PO-REQ-3300", po.PONumber)
	assert.Equal(t, "REQ-3300", po.RequisitionNo)
	assert.Equal(t, int64(17), po.Quantity)
	require.Len(t, po.Deliveries, 5)

	assert.Equal(t, "2026-01", po.Deliveries[0].Month)
	assert.Equal(t, int64(4), po.Deliveries[0].Quantity)
	assert.Equal(t, int64(4), po.Deliveries[1].Quantity)
	assert.Equal(t, int64(3), po.Deliveries[4].Quantity)

	var total int64
	for _, d := range po.Deliveries {
		total += d.Quantity
	}
	assert.Equal(t, po.Quantity, total)
}

func TestConvertToPurchaseOrder_InvalidRequisition(t *testing.T) {
	adapter := documents.NewRequisitionAdapter()

	_, err := adapter.ConvertToPurchaseOrder(documents.Requisition{
		RequisitionNo:  "REQ-3301",
		ItemCode:       "WIDGET-9",
		Quantity:       0,
		DeliveryMonths: []string{"2026-01"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = adapter.ConvertToPurchaseOrder(documents.Requisition{
		RequisitionNo: "REQ-3302",
		ItemCode:      "WIDGET-9",
		Quantity:      5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
