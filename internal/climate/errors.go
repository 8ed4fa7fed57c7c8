package climate

import "errors"

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrDataUnavailable = errors.New("historical data unavailable")
	ErrMalformedInput  = errors.New("malformed provider payload")
	ErrEmptyWindow     = errors.New("no historical data in analysis window")
	ErrInvalidWindow   = errors.New("invalid analysis window")
)
