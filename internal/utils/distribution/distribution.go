package distribution

import (
	"fmt"
	"sort"

	"github.com/verdanterp/ledger_core/internal/apperrors"
)

// MonthlyQuantity is one month's share of a distributed requisition quantity.
type MonthlyQuantity struct {
	Month    string `json:"month"` // "2025-09" style period key
	Quantity int64  `json:"quantity"`
}

// SplitQuantity distributes a requested quantity across the selected delivery
// months: each month gets floor(qty/N), and the remainder goes one unit at a
// time to the earliest months. The per-month quantities always sum exactly to
// the requested quantity.
func SplitQuantity(quantity int64, months []string) ([]MonthlyQuantity, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", apperrors.ErrValidation, quantity)
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("%w: at least one delivery month is required", apperrors.ErrValidation)
	}
	seen := make(map[string]struct{}, len(months))
	for _, m := range months {
		if _, dup := seen[m]; dup {
			return nil, fmt.Errorf("%w: duplicate delivery month %s", apperrors.ErrValidation, m)
		}
		seen[m] = struct{}{}
	}

	sorted := make([]string, len(months))
	copy(sorted, months)
	sort.Strings(sorted)

	n := int64(len(sorted))
	base := quantity / n
	remainder := quantity % n

	result := make([]MonthlyQuantity, len(sorted))
	for i, month := range sorted {
		q := base
		if int64(i) < remainder {
			q++
		}
		result[i] = MonthlyQuantity{Month: month, Quantity: q}
	}
	return result, nil
}
