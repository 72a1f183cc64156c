// Package vrc provides the value types recovered from VRCX game logs.
//
// This package contains pure functions only. It performs no I/O, holds no
// shared mutable state, and imports nothing internal, so every function is
// safe to call from any number of goroutines.
//
// Three categorical normalizers map free-form tokens onto closed sets:
//   - Region: where a world instance is hosted
//   - TrustLevel: a user's platform trust rank
//   - JoinLeaveEvent: the kind of a join/leave log entry
//
// Each normalizer returns the variant's fallback (RegionOther, TrustUnknown,
// EventOther) together with an *UnrecognizedTokenError when the token is not
// in its table. Callers decide whether that is fatal.
//
// ParseWorldInstance parses the compact location string VRChat writes for a
// world instance:
//
//	wrld_<uuid>:<instance>~region(eu)~private(usr_<uuid>)~nonce(<nonce>)
package vrc
