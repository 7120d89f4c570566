package contract

import "errors"

// Sentinel errors shared by the store, the HTTP API and the CLI.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrRiskNotFound    = errors.New("risk not found")
	ErrChangeNotFound  = errors.New("change request not found")
	ErrInvalidInput    = errors.New("invalid input")
)
