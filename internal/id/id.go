// Package id generates stable entity identifiers for ledger records.
package id

import "github.com/google/uuid"

// New returns a fresh entity ID.
func New() string {
	return uuid.NewString()
}
