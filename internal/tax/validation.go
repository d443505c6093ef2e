package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
)

func (s *Service) validate(tc TaxCode) error {
	if strings.TrimSpace(tc.Code) == "" {
		return fmt.Errorf("%w: tax code", shared.ErrRequiredField)
	}
	if strings.TrimSpace(tc.Name) == "" {
		return fmt.Errorf("%w: tax name", shared.ErrRequiredField)
	}
	if tc.Rate.IsNegative() || tc.CessRate.IsNegative() {
		return fmt.Errorf("%w: tax rates cannot be negative", shared.ErrValidation)
	}
	if tc.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: tax rate cannot exceed 100 percent", shared.ErrValidation)
	}
	// An explicit split must add back up to the composite rate,
	// otherwise intra- and inter-state totals diverge.
	if tc.CGSTRate != nil && tc.SGSTRate != nil {
		if !tc.CGSTRate.Add(*tc.SGSTRate).Equal(tc.Rate) {
			return fmt.Errorf("%w: cgst and sgst rates must sum to the composite rate", shared.ErrValidation)
		}
	}
	if (tc.CGSTRate == nil) != (tc.SGSTRate == nil) {
		return fmt.Errorf("%w: cgst and sgst rates must be configured together", shared.ErrValidation)
	}
	if tc.IGSTRate != nil && !tc.IGSTRate.Equal(tc.Rate) {
		return fmt.Errorf("%w: igst rate must equal the composite rate", shared.ErrValidation)
	}
	return nil
}
