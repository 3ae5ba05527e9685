package repository

import "time"

// nullIfEmpty maps empty strings to SQL NULL
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullIfZero maps zero timestamps to SQL NULL
func nullIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// textArray normalizes nil slices so TEXT[] columns never store NULL
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
