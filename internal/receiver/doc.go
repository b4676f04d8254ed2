// Package receiver implements the BB60-family driver: a devices.Device and
// streaming.Fetcher backed by a simulated vendor ABI, its parameter set and
// validation rules, use-case presets, and on-disk configuration profiles.
package receiver
