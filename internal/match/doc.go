// Package match provides column name normalization, Levenshtein distance
// calculation and "did you mean" ranking of column names.
//
// Key functions:
//   - NormalizeColumn: canonical lookup key for a column name
//   - JoinColumn: display form of a prefixed column name
//   - Levenshtein: computes edit distance between strings
//   - SuggestColumns: ranks present columns against a missing one
package match
