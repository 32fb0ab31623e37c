package catalog

import "fmt"

// ResolutionError is a transport or service failure while looking an image
// up in the catalog. Zero matches is not an error; Resolve reports that
// through its found result instead.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return "image resolution failed: " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// FetchError is a non-success response from the geometry endpoint.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("geometry fetch failed with status %d", e.Status)
}

// ParseError is a success response whose body could not be decoded. Raw
// keeps the response text for diagnostics.
type ParseError struct {
	Raw []byte
	Err error
}

func (e *ParseError) Error() string {
	return "geometry response parse failed: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
