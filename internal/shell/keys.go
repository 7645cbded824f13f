package shell

import (
	"fmt"
	"math"
	"strconv"
)

func ParseInt(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrBadKey, s)
	}
	return k, nil
}

// ParseFloat rejects NaN, which has no place in a total order.
func ParseFloat(s string) (float64, error) {
	k, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadKey, s)
	}
	if math.IsNaN(k) {
		return 0, fmt.Errorf("%w: NaN is not ordered", ErrBadKey)
	}
	return k, nil
}

func ParseString(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty key", ErrBadKey)
	}
	return s, nil
}
