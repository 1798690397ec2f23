package store

import (
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestCountryStoreInterfaceExists(t *testing.T) {
	// This test simply validates that the CountryStore interface compiles
	// and the sentinel errors are accessible.
	_ = ErrNotFound
	_ = ListFilter{}

	// Ensure the interface is non-nil type.
	var _ CountryStore
}
