package domain

import "time"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ValueOr dereferences p, or returns fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// NonEmptyOr dereferences p, or returns fallback when p is nil or holds the
// zero value. Mirrors the "field || default" semantics of form submissions.
func NonEmptyOr[T comparable](p *T, fallback T) T {
	var zero T
	if p == nil || *p == zero {
		return fallback
	}
	return *p
}

// TimeOr dereferences p, or returns fallback when p is nil or zero.
func TimeOr(p *time.Time, fallback time.Time) time.Time {
	if p == nil || p.IsZero() {
		return fallback
	}
	return *p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
