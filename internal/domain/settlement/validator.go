package settlement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names reported in validation mismatches. They match the column
// names on the settlements table so operators can cross-check directly.
const (
	FieldTotalSaleAmount       = "total_sale_amount"
	FieldTotalBaseAmount       = "total_base_amount"
	FieldTotalCommissionAmount = "total_commission_amount"
	FieldPayableAmount         = "payable_amount"
)

// Mismatch records one stored aggregate amount that disagrees with the
// sum recomputed from the settlement's items.
type Mismatch struct {
	Field    string          `json:"field"`
	Stored   decimal.Decimal `json:"stored"`
	Computed decimal.Decimal `json:"computed"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: stored=%s computed=%s", m.Field, m.Stored, m.Computed)
}

// ValidationResult is the outcome of checking one settlement's stored
// totals against its recomputed item sums.
type ValidationResult struct {
	Valid      bool       `json:"valid"`
	Reason     string     `json:"reason,omitempty"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Summary renders a single-line description of the failure, suitable for
// log output. Returns "ok" for a passing result.
func (r ValidationResult) Summary() string {
	if r.Valid {
		return "ok"
	}
	if len(r.Mismatches) == 0 {
		return r.Reason
	}
	parts := make([]string, 0, len(r.Mismatches))
	for _, m := range r.Mismatches {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "; ")
}

// Validator checks that a settlement's stored aggregate amounts equal the
// sums recomputed from its items. All comparisons are exact decimal
// equality; a builder and an engine that both compute in decimals must
// agree to the last digit, so any difference at all means corrupted or
// inconsistently built data.
//
// Which gross total is checked depends on the party type: sellers are
// settled on sale amounts, suppliers on base amounts, and the platform's
// gross has no single item-level counterpart so it is not cross-checked.
// Commission and payable sums are verified for every party type.
type Validator struct{}

// NewValidator creates a new settlement validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks one settlement. It never mutates the settlement and
// never returns an error: every data problem, including an unrecognized
// party type, is reported as an invalid result.
func (v *Validator) Validate(s *Settlement) ValidationResult {
	if len(s.Items) == 0 {
		return ValidationResult{Valid: false, Reason: "settlement has no items"}
	}

	sums := s.ItemTotals()
	var mismatches []Mismatch

	switch s.PartyType {
	case PartyTypeSeller:
		if !sums.Gross.Equal(s.TotalSaleAmount) {
			mismatches = append(mismatches, Mismatch{
				Field:    FieldTotalSaleAmount,
				Stored:   s.TotalSaleAmount,
				Computed: sums.Gross,
			})
		}
	case PartyTypeSupplier:
		if !sums.Gross.Equal(s.TotalBaseAmount) {
			mismatches = append(mismatches, Mismatch{
				Field:    FieldTotalBaseAmount,
				Stored:   s.TotalBaseAmount,
				Computed: sums.Gross,
			})
		}
	case PartyTypePlatform:
		// No gross-amount check for the platform.
	default:
		return ValidationResult{
			Valid:  false,
			Reason: fmt.Sprintf("unknown party type %q", s.PartyType),
		}
	}

	if !sums.Commission.Equal(s.TotalCommissionAmount) {
		mismatches = append(mismatches, Mismatch{
			Field:    FieldTotalCommissionAmount,
			Stored:   s.TotalCommissionAmount,
			Computed: sums.Commission,
		})
	}
	if !sums.Net.Equal(s.PayableAmount) {
		mismatches = append(mismatches, Mismatch{
			Field:    FieldPayableAmount,
			Stored:   s.PayableAmount,
			Computed: sums.Net,
		})
	}

	if len(mismatches) > 0 {
		return ValidationResult{
			Valid:      false,
			Reason:     "stored totals do not match item sums",
			Mismatches: mismatches,
		}
	}
	return ValidationResult{Valid: true}
}
