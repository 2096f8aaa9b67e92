package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/sdiscovery/errors"
)

func TestValidatorURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"http://discovery.local:8080", false},
		{"https://a.example/base/path", false},
		{"discovery.local:8080", true},
		{"ftp://a.example", true},
		{"http://", true},
		{"", true},
	}
	for _, tc := range tests {
		v := New().URL("endpoint", tc.in)
		if v.HasErrors() != tc.wantErr {
			t.Errorf("URL(%q) errors=%v, wantErr %v", tc.in, v.Errors(), tc.wantErr)
		}
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(false, "endpoints", "must not be empty")
	if !v.HasErrors() {
		t.Fatal("expected error for false condition")
	}
	if v.Errors()[0].Message != "must not be empty" {
		t.Errorf("expected 'must not be empty', got %q", v.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().URL("endpoints[0]", "http://a").Validate() != nil {
		t.Error("expected nil for valid input")
	}

	appErr := New().URL("endpoints[0]", "a").Custom(false, "endpoints", "is required").Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "endpoints[0]") || !strings.Contains(appErr.Message, "endpoints:") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

type record struct {
	Pool       *string           `json:"pool" validate:"required"`
	Type       *string           `json:"type" validate:"required"`
	Properties map[string]string `json:"properties" validate:"required"`
	Location   *string           `json:"location,omitempty"`
}

func strPtr(s string) *string { return &s }

func TestMissing(t *testing.T) {
	tests := []struct {
		name string
		in   record
		want []string
	}{
		{
			name: "all present",
			in:   record{Pool: strPtr("general"), Type: strPtr("web"), Properties: map[string]string{}},
			want: nil,
		},
		{
			name: "empty string counts as present",
			in:   record{Pool: strPtr(""), Type: strPtr(""), Properties: map[string]string{"a": "b"}},
			want: nil,
		},
		{
			name: "all missing in declaration order",
			in:   record{},
			want: []string{"pool", "type", "properties"},
		},
		{
			name: "nil properties",
			in:   record{Pool: strPtr("p"), Type: strPtr("t")},
			want: []string{"properties"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Missing(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("Missing() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMissing_Uninspectable(t *testing.T) {
	for _, in := range []any{nil, 42, "pool"} {
		got, err := Missing(in)
		if err == nil {
			t.Errorf("Missing(%#v) expected error, got %v", in, got)
			continue
		}
		if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Missing(%#v) expected INVALID_INPUT, got %v", in, err)
		}
	}

	var rec *record
	if _, err := Missing(rec); err == nil {
		t.Error("expected error for nil struct pointer")
	}
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(record{Pool: strPtr("p"), Type: strPtr("t"), Properties: map[string]string{}})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(record{Pool: strPtr("p")})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", appErr.Details["fields"])
	}
	if fields[0].Field != "type" || fields[1].Field != "properties" {
		t.Errorf("unexpected field order: %v", fields)
	}
}

func TestStructValidateMinMax(t *testing.T) {
	type Input struct {
		Code string `json:"code" validate:"required,min=3,max=10"`
	}

	if err := Validate(Input{Code: "abc"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := Validate(Input{Code: "ab"}); err == nil {
		t.Error("expected error for code too short")
	}
}
