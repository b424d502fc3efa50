package errors

import (
	"strings"
	"testing"
)

func TestValidateGUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid lowercase", "0e4b3a9c-1c2d-4f5e-8a9b-0c1d2e3f4a5b", false},
		{"valid uppercase", "0E4B3A9C-1C2D-4F5E-8A9B-0C1D2E3F4A5B", false},
		{"placeholder", "-1234567", false},

		{"empty", "", true},
		{"short", "abc", true},
		{"missing dashes", "0e4b3a9c1c2d4f5e8a9b0c1d2e3f4a5b", true},
		{"positive number", "1234", true},
		{"path traversal", "../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGUID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGUID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateQualifiedName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"connection", "default/snowflake/1700000000", false},
		{"table", "default/snowflake/1700000000/DB/SCHEMA/ORDERS", false},
		{"quoted", `default/postgres/1/db/public/"Weird Name"`, false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 2049), true},
		{"newline", "default/x\ny", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQualifiedName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQualifiedName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTypeName(t *testing.T) {
	for _, ok := range []string{"Table", "AtlasGlossaryTerm", "Column", "dbt_Model"} {
		if err := ValidateTypeName(ok); err != nil {
			t.Errorf("ValidateTypeName(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "1Table", "Table Name", "Table/x"} {
		if err := ValidateTypeName(bad); err == nil {
			t.Errorf("ValidateTypeName(%q) should fail", bad)
		}
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://tenant.atlan.com", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://tenant.atlan.com", true},
		{"tenant.atlan.com", true},
		{"https://", true},
	}

	for _, tt := range tests {
		err := ValidateBaseURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateBaseURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateBaseURL(%q) code = %v, want INVALID_CONFIG", tt.input, GetCode(err))
		}
	}
}
