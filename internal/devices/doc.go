// Package devices defines the hardware-agnostic signal-source contract and
// a type registry mapping driver names to constructors.
//
// Concrete drivers (internal/receiver) implement Device against this
// interface; callers that only need enumeration or factory construction
// depend on this package rather than on a specific driver.
package devices
