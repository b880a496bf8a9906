package usecase

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

func errClassifierCount(got, want int) error {
	return fmt.Errorf("classifier returned %d results for %d texts", got, want)
}

// errorStrings flattens per-part errors for responses; nil when empty.
func errorStrings(errs map[string]error) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for k, err := range errs {
		out[k] = err.Error()
	}
	return out
}
