// Package types defines the shared error taxonomy for the treefold tree
// models.
//
// This package only exposes error kinds and sentinels so that callers can
// branch on intent (errors.Is against the sentinels, or unwrapping to *Error
// and switching on Kind) without depending on the model packages.
//
// This package has no dependencies beyond the standard library.
package types
