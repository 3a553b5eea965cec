package httperr

import "errors"

// BusinessError is an expected, typed failure that handlers translate into
// a client-facing error code. Detail names the offending field or value.
type BusinessError struct {
	Code   string
	Detail string
	Err    error
}

func (e BusinessError) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return e.Code + ": " + e.Detail + ": " + e.Err.Error()
	case e.Detail != "":
		return e.Code + ": " + e.Detail
	case e.Err != nil:
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessDetail(code, detail string) error {
	return BusinessError{Code: code, Detail: detail}
}

// Wrap tags a lower-level error with a business code, keeping it reachable
// through errors.Is / errors.As.
func Wrap(code string, err error) error {
	return BusinessError{Code: code, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, if any.
func CodeOf(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// DetailOf returns the detail carried by err, if any.
func DetailOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Detail
	}
	return ""
}
