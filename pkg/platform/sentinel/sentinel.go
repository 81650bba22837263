package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Record stores and other
// infrastructure layers return these (optionally wrapped) so services can
// translate them into coded domain errors.
//
// These represent factual states about stored records, not validation
// failures:
// - ErrNotFound: no record exists at the address
// - ErrConflict: a record already exists at an address being created
// - ErrUnavailable: backend temporarily unreachable
//
// For validation errors (bad input, violated preconditions), use
// pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
