// internal/status/snapshot.go
package status

import "time"

// Snapshot is the health of one endpoint after one session cycle.
// It contains no logic and no memory of earlier cycles.
type Snapshot struct {
	RunID    string    `json:"run_id"`
	Session  string    `json:"session"`
	Endpoint string    `json:"endpoint"`
	Station  uint8     `json:"station"`
	At       time.Time `json:"at"`

	Health        uint16 `json:"health"`
	LastErrorCode uint16 `json:"last_error_code"`
	LastErrorKind string `json:"last_error_kind,omitempty"`
	LastError     string `json:"last_error,omitempty"`

	OperationsOK     int `json:"operations_ok"`
	OperationsFailed int `json:"operations_failed"`
}

// Fail records err as the latest failure and moves health to HealthError,
// unless the endpoint is already marked unreachable.
func (s *Snapshot) Fail(err error) {
	if err == nil {
		return
	}
	if s.Health != HealthUnreachable {
		s.Health = HealthError
	}
	s.LastErrorCode = ErrorCode(err)
	s.LastErrorKind = ErrorKind(err)
	s.LastError = err.Error()
}
