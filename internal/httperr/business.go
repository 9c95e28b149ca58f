package httperr

import "errors"

// BusinessError is a rule violation the client can act on. Code is the
// error_code sent back in the JSON body.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// CodeOf unwraps err to its business code.
func CodeOf(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

func IsBusiness(err error, code string) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
