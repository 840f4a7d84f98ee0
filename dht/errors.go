package dht

import "errors"

var (
	// ErrNoResponse means the sensor did not pull the line low after the
	// start pulse was released.
	ErrNoResponse = errors.New("dht: no response from sensor")
	// ErrTimeout means the line held one level longer than the protocol allows.
	ErrTimeout = errors.New("dht: timed out waiting for level change")
	// ErrChecksumMismatch means all 40 bits were framed but the fifth byte
	// does not match the sum of the first four.
	ErrChecksumMismatch = errors.New("dht: checksum mismatch")
)

// Kind returns a short label for err, used for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoResponse):
		return "no_response"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrChecksumMismatch):
		return "checksum"
	default:
		return "line"
	}
}
