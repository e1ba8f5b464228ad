// Package metrics turns watches and expenses into the business figures shown
// on the dashboard, analytics and financials pages.
//
// The package is pure: every function works on in-memory slices, never
// returns an error and yields zero values for empty input. Callers fetch the
// records (see package report) and hand them over in full; period filtering
// happens here so that every view applies the same rule.
package metrics
