package suppliers

import (
	"fmt"
	"strings"

	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
)

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Code) == "" {
		return fmt.Errorf("%w: supplier code", shared.ErrRequiredField)
	}
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: supplier name", shared.ErrRequiredField)
	}
	if len(sup.StateCode) != 2 {
		return fmt.Errorf("%w: state code must be two digits", shared.ErrValidation)
	}
	if sup.GSTIN != "" {
		if len(sup.GSTIN) != 15 {
			return fmt.Errorf("%w: gstin must be 15 characters", shared.ErrValidation)
		}
		// The first two GSTIN characters are the registration state.
		if !strings.HasPrefix(sup.GSTIN, sup.StateCode) {
			return fmt.Errorf("%w: gstin state prefix must match state code", shared.ErrValidation)
		}
	}
	return nil
}
