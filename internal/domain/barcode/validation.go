package barcode

import (
	"errors"
	"fmt"
	"strings"
)

// Length limits per type. Code128 values over the warn threshold render
// poorly on small labels, so the UI shows an advisory; persistence never
// enforces it.
const (
	Code128Min           = 4
	Code128Max           = 40
	Code128WarnThreshold = 30
	Code39Min            = 4
	Code39Max            = 43
	DataMatrixMin        = 4
	DataMatrixMax        = 100
	ExternalQRMin        = 1
	ExternalQRMax        = 2048
	EAN13Length          = 13
)

// Normalize canonicalizes a raw value for storage and comparison.
// ExternalQR preserves original case (URLs, structured payloads); every
// other type is folded to uppercase. Comparisons must never mix normalized
// and raw forms.
func Normalize(t Type, value string) string {
	if t == TypeExternalQR {
		return value
	}
	return strings.ToUpper(value)
}

// ShouldWarnLong reports whether a Code128 value is long enough to warrant
// a UI warning. Advisory only, never a validation failure.
func ShouldWarnLong(t Type, value string) bool {
	return t == TypeCode128 && len(value) > Code128WarnThreshold
}

// Validate checks a value's shape against the rules of its type.
// It is pure and has no store access; every higher-level operation
// (single create, batch create, update, import) reuses it identically.
// The value should already be normalized except when probing raw input.
func Validate(t Type, value string) error {
	switch t {
	case TypeCode128:
		return validateCode128(value)
	case TypeCode39:
		return validateCode39(value)
	case TypeDataMatrix:
		return validateDataMatrix(value)
	case TypeExternalQR:
		return validateExternalQR(value)
	case TypeEAN13:
		return validateEAN13(value)
	default:
		return errors.New("Unknown barcode type")
	}
}

func validateCode128(value string) error {
	if value == "" {
		return errors.New("Barcode value is required")
	}
	if len(value) < Code128Min {
		return fmt.Errorf("Code128 barcode must be at least %d characters", Code128Min)
	}
	if len(value) > Code128Max {
		return fmt.Errorf("Code128 barcode too long (max %d characters)", Code128Max)
	}
	if !isPrintableASCII(value) {
		return errors.New("Code128 barcode contains invalid characters")
	}
	return nil
}

func validateCode39(value string) error {
	if value == "" {
		return errors.New("Barcode value is required")
	}
	if len(value) < Code39Min {
		return fmt.Errorf("Code39 barcode must be at least %d characters", Code39Min)
	}
	if len(value) > Code39Max {
		return fmt.Errorf("Code39 barcode too long (max %d characters)", Code39Max)
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return errors.New("Code39 barcode must contain only uppercase letters (A-Z) and numbers (0-9)")
		}
	}
	return nil
}

func validateDataMatrix(value string) error {
	if value == "" {
		return errors.New("Barcode value is required")
	}
	if len(value) < DataMatrixMin {
		return fmt.Errorf("DataMatrix barcode must be at least %d characters", DataMatrixMin)
	}
	if len(value) > DataMatrixMax {
		return fmt.Errorf("DataMatrix barcode too long (max %d characters)", DataMatrixMax)
	}
	if !isPrintableASCII(value) {
		return errors.New("DataMatrix barcode contains invalid characters")
	}
	return nil
}

func validateExternalQR(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("External QR data is required")
	}
	if len(value) > ExternalQRMax {
		return fmt.Errorf("External QR data too long (max %d characters)", ExternalQRMax)
	}
	// Any content is allowed: URLs, text, structured data.
	return nil
}

func validateEAN13(value string) error {
	if value == "" {
		return errors.New("EAN-13 barcode value is required")
	}
	if len(value) != EAN13Length {
		return fmt.Errorf("EAN-13 barcode must be exactly %d digits", EAN13Length)
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return errors.New("EAN-13 barcode must contain only numeric digits (0-9)")
		}
	}
	if int(value[12]-'0') != ean13CheckDigit(value[:12]) {
		return errors.New("EAN-13 barcode has an invalid check digit")
	}
	return nil
}

// ean13CheckDigit computes the standard EAN/UPC mod-10 check digit over the
// first 12 digits: alternating weights 1 and 3, left to right.
func ean13CheckDigit(first12 string) int {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(first12[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	if r := sum % 10; r != 0 {
		return 10 - r
	}
	return 0
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

// prepare is the single normalize-then-validate helper every public
// operation goes through, so a rule change needs one edit, not five.
// The empty check runs on the trimmed raw input before normalization.
func prepare(t Type, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("Barcode value is required")
	}
	normalized := Normalize(t, raw)
	if err := Validate(t, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
