package pathpattern

import "errors"

var (
	ErrNotPattern    = errors.New("pathpattern: label is not a parameter")
	ErrInvalidRegexp = errors.New("pathpattern: invalid parameter expression")
	ErrMalformedURL  = errors.New("pathpattern: malformed url")
)
