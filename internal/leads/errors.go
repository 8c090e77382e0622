package leads

import "errors"

var (
	// ErrSinkNotConfigured indicates the sheet sink was constructed without a target.
	ErrSinkNotConfigured = errors.New("leads: sink not configured")
)
