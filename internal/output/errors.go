package output

import "errors"

// SilentError marks an error the user has already seen through a Sink so
// the command layer does not print it again.
type SilentError struct {
	Err error
}

func (e *SilentError) Error() string {
	return e.Err.Error()
}

func (e *SilentError) Unwrap() error {
	return e.Err
}

func NewSilentError(err error) *SilentError {
	return &SilentError{Err: err}
}

// IsSilent reports whether err or anything it wraps is a SilentError.
func IsSilent(err error) bool {
	var silent *SilentError
	return errors.As(err, &silent)
}

// Fail reports err on sink under title and returns it marked silent.
func Fail(sink Sink, title string, err error) error {
	if err == nil {
		return nil
	}
	EmitError(sink, title, err.Error())
	return NewSilentError(err)
}
