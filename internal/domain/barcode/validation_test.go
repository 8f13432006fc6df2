package barcode

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		value string
		want  string
	}{
		{"code128 uppercased", TypeCode128, "abc123", "ABC123"},
		{"code39 uppercased", TypeCode39, "def456", "DEF456"},
		{"datamatrix uppercased", TypeDataMatrix, "wxyz", "WXYZ"},
		{"ean13 digits unchanged", TypeEAN13, "9780201379624", "9780201379624"},
		{"external qr preserves case", TypeExternalQR, "https://Example.com/Path?x=Ab", "https://Example.com/Path?x=Ab"},
		{"already uppercase", TypeCode128, "ABC123", "ABC123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.typ, tt.value); got != tt.want {
				t.Errorf("Normalize(%s, %q) = %q, want %q", tt.typ, tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateCode128(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "ABCD1234", ""},
		{"minimum length", "ABCD", ""},
		{"maximum length", strings.Repeat("A", 40), ""},
		{"too short", "ABC", "Code128 barcode must be at least 4 characters"},
		{"too long", strings.Repeat("A", 41), "Code128 barcode too long (max 40 characters)"},
		{"empty", "", "Barcode value is required"},
		{"null byte", "ABC\x00123", "Code128 barcode contains invalid characters"},
		{"non ascii", "ABCÉ123", "Code128 barcode contains invalid characters"},
		{"punctuation allowed", "AB-12_34.56", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidate(t, TypeCode128, tt.value, tt.wantErr)
		})
	}
}

func TestValidateCode39(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "ABC123", ""},
		{"minimum length", "AB12", ""},
		{"maximum length", strings.Repeat("A", 43), ""},
		{"too short", "ABC", "Code39 barcode must be at least 4 characters"},
		{"too long", strings.Repeat("A", 44), "Code39 barcode too long (max 43 characters)"},
		{"lowercase rejected", "abc123", "Code39 barcode must contain only uppercase letters (A-Z) and numbers (0-9)"},
		{"punctuation rejected", "AB-123", "Code39 barcode must contain only uppercase letters (A-Z) and numbers (0-9)"},
		{"empty", "", "Barcode value is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidate(t, TypeCode39, tt.value, tt.wantErr)
		})
	}
}

func TestValidateDataMatrix(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "WXYZ5678", ""},
		{"maximum length", strings.Repeat("A", 100), ""},
		{"too short", "ABC", "DataMatrix barcode must be at least 4 characters"},
		{"too long", strings.Repeat("A", 101), "DataMatrix barcode too long (max 100 characters)"},
		{"control char", "ABCD\x01", "DataMatrix barcode contains invalid characters"},
		{"empty", "", "Barcode value is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidate(t, TypeDataMatrix, tt.value, tt.wantErr)
		})
	}
}

func TestValidateExternalQR(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"single char", "A", ""},
		{"url with mixed case", "https://example.com/Items/42", ""},
		{"maximum length", strings.Repeat("a", 2048), ""},
		{"too long", strings.Repeat("a", 2049), "External QR data too long (max 2048 characters)"},
		{"empty", "", "External QR data is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidate(t, TypeExternalQR, tt.value, tt.wantErr)
		})
	}
}

func TestValidateEAN13(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid isbn", "9780201379624", ""},
		{"valid retail", "4006381333931", ""},
		{"wrong check digit", "9780201379625", "EAN-13 barcode has an invalid check digit"},
		{"too short", "978020137962", "EAN-13 barcode must be exactly 13 digits"},
		{"too long", "97802013796240", "EAN-13 barcode must be exactly 13 digits"},
		{"letters", "978020137962A", "EAN-13 barcode must contain only numeric digits (0-9)"},
		{"empty", "", "EAN-13 barcode value is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidate(t, TypeEAN13, tt.value, tt.wantErr)
		})
	}
}

func TestValidateUnknownType(t *testing.T) {
	err := Validate(Type("QRCode"), "ABCD1234")
	if err == nil || err.Error() != "Unknown barcode type" {
		t.Fatalf("Validate(unknown) = %v, want unknown type error", err)
	}
}

func TestShouldWarnLong(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		value string
		want  bool
	}{
		{"code128 at threshold", TypeCode128, strings.Repeat("A", 30), false},
		{"code128 above threshold", TypeCode128, strings.Repeat("A", 31), true},
		{"code128 at max still valid", TypeCode128, strings.Repeat("A", 40), true},
		{"code39 never warns", TypeCode39, strings.Repeat("A", 43), false},
		{"datamatrix never warns", TypeDataMatrix, strings.Repeat("A", 100), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldWarnLong(tt.typ, tt.value); got != tt.want {
				t.Errorf("ShouldWarnLong(%s, len %d) = %v, want %v", tt.typ, len(tt.value), got, tt.want)
			}
		})
	}
}

// Long Code128 values warn but must still validate; the warning is advisory.
func TestWarnLongValuesStillValid(t *testing.T) {
	v := strings.Repeat("A", 35)
	if err := Validate(TypeCode128, v); err != nil {
		t.Fatalf("Validate(long code128) = %v, want nil", err)
	}
	if !ShouldWarnLong(TypeCode128, v) {
		t.Fatal("ShouldWarnLong(long code128) = false, want true")
	}
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		raw     string
		want    string
		wantErr string
	}{
		{"normalizes then validates", TypeCode128, "abc123", "ABC123", ""},
		{"external qr untouched", TypeExternalQR, "MixedCase", "MixedCase", ""},
		{"whitespace only", TypeCode128, "   ", "", "Barcode value is required"},
		{"lowercase code39 passes after normalize", TypeCode39, "abc123", "ABC123", ""},
		{"invalid after normalize", TypeCode39, "ab-123", "", "Code39 barcode must contain only uppercase letters (A-Z) and numbers (0-9)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prepare(tt.typ, tt.raw)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("prepare(%s, %q) err = %v, want %q", tt.typ, tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("prepare(%s, %q) unexpected error: %v", tt.typ, tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("prepare(%s, %q) = %q, want %q", tt.typ, tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %v, %v", typ, got, err)
		}
	}
	if _, err := ParseType("UPC"); err == nil {
		t.Error("ParseType(UPC) succeeded, want error")
	}
}

func assertValidate(t *testing.T, typ Type, value, wantErr string) {
	t.Helper()
	err := Validate(typ, value)
	if wantErr == "" {
		if err != nil {
			t.Fatalf("Validate(%s, %q) = %v, want nil", typ, value, err)
		}
		return
	}
	if err == nil {
		t.Fatalf("Validate(%s, %q) = nil, want %q", typ, value, wantErr)
	}
	if err.Error() != wantErr {
		t.Fatalf("Validate(%s, %q) = %q, want %q", typ, value, err.Error(), wantErr)
	}
}
