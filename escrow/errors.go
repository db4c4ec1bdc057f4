package escrow

import "errors"

// Error taxonomy of the escrow partition. Every public operation surfaces
// failures as one of these sentinels (wrapped with context); the RPC layer
// maps them to response codes with errors.Is.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("payment not found")
	ErrAlreadyClaimed      = errors.New("payment already claimed")
	ErrConditionsNotMet    = errors.New("conditions not met")
	ErrExpired             = errors.New("payment expired")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidAsset        = errors.New("invalid asset")
	ErrInvalidEscrowAgent  = errors.New("invalid escrow agent")
	ErrInvalidPrincipal    = errors.New("invalid principal")
	ErrInvalidMetadata     = errors.New("invalid metadata")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBatchOperationFailed is part of the public error surface but is
	// never returned: individual batch item failures are skipped, not
	// surfaced.
	ErrBatchOperationFailed = errors.New("batch operation failed")
)
