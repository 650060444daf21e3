package sign

import "fmt"

// UnknownOrganisationBIN is the sentinel BIN used when a client does not
// provide one. It maps to a stub organisation record with placeholder names.
const UnknownOrganisationBIN = "000000000000"

// ValidateBIN checks a business identification number: exactly 12 ASCII
// digits and not the all-zero sentinel.
func ValidateBIN(bin string) error {
	if len(bin) != 12 {
		return NewValidationError(ReasonInvalidBin,
			fmt.Sprintf("bin must be exactly 12 digits, got %d characters", len(bin)))
	}
	for i := 0; i < len(bin); i++ {
		if bin[i] < '0' || bin[i] > '9' {
			return NewValidationError(ReasonInvalidBin, "bin must contain only digits")
		}
	}
	if bin == UnknownOrganisationBIN {
		return NewValidationError(ReasonInvalidBin, "bin must not be all zeroes")
	}
	return nil
}
