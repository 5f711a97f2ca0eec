package pipeline

import "errors"

// ErrInvalidInput marks a request-level validation failure: empty input or
// input over the length bound. The transport layer maps it to a client
// error and never retries it.
var ErrInvalidInput = errors.New("pipeline: invalid input")

// ErrOracleUnavailable is returned by [Pipeline.CheckWord] when the spell
// oracle was never initialised. Full-text checking does not return it —
// [Pipeline.Run] degrades to a pass-through instead. The two entry points
// deliberately differ here.
var ErrOracleUnavailable = errors.New("pipeline: spell oracle unavailable")
