// Package model converts raw VRCX table rows into normalized domain records.
//
// Converters are pure: they perform no I/O and share no state, so callers
// may run them concurrently over disjoint rows. Each converter applies the
// same sentinel rules:
//   - integers <= 0 become absent (nil); positive values become *uint64
//   - empty strings become absent (nil)
//   - display names are trimmed of surrounding whitespace
//   - location strings go through vrc.Parser, categorical fields through the
//     matching vrc normalizer
//
// Failures are reported as *ConversionError naming the table, row and field.
package model
