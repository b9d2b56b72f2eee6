// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents an endpoint that has not been contacted yet.
const HealthUnknown uint16 = 0

// HealthOK represents an endpoint whose cycle completed without error.
const HealthOK uint16 = 1

// HealthError represents an endpoint where at least one step failed.
const HealthError uint16 = 2

// HealthUnreachable represents an endpoint that could not be connected.
const HealthUnreachable uint16 = 3

// ---- ERROR CODES ----

// Codes below 0x100 are Modbus exception codes copied from the device.
// Codes from 0x100 up identify a client-side error kind.
const KindCodeBase uint16 = 0x100
