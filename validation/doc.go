// Package validation provides input validation for registry client inputs.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tags carry the rules
// for announcements; the programmatic form checks client configuration.
//
// # Struct Tag Validation
//
//	type Announcement struct {
//	    Pool *string `json:"pool" validate:"required"`
//	}
//	missing, err := validation.Missing(a)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(len(endpoints) > 0, "endpoints", "must not be empty")
//	err := v.Validate()
package validation
