// Package diagnostic provides structured errors, warnings and infos
// collected while building type descriptors and validating mapping files.
//
// Key capabilities:
//   - Accumulate every problem of one build instead of failing on the first
//   - Stable codes for tests and tooling
//   - Fold the collected errors into a single error value
package diagnostic
