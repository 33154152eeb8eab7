package validation

import (
	"fmt"

	"github.com/iwvelando/property-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateInterestMethod checks the deductible interest method.
func ValidateInterestMethod(method string) error {
	switch method {
	case "", constants.InterestMethodFlat, constants.InterestMethodSchedule:
		return nil
	}
	return fmt.Errorf("expected interest method of %s or %s, got %s",
		constants.InterestMethodFlat, constants.InterestMethodSchedule, method)
}
