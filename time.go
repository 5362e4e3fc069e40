package jwt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxUnixSeconds bounds epoch seconds to values time.Unix represents without
// overflow. Dates beyond it compare as the bound, which is still billions of
// years away from any real clock.
const maxUnixSeconds = 1 << 62

var errNotNumericDate = errors.New("not a numeric date")

// parseNumericDate reads an RFC 7519 NumericDate. JSON numbers (integral or
// fractional) and base-10 integer strings are accepted. Negative and far
// future values are valid dates; only unparsable input is an error.
func parseNumericDate(v Value) (time.Time, error) {
	switch v.Kind() {
	case KindNumber:
		if sec, ok := v.AsInt64(); ok {
			return unixDate(sec), nil
		}
		f, ok := v.AsFloat64()
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("%w: %s", errNotNumericDate, v.str)
		}
		if f >= maxUnixSeconds || f <= -maxUnixSeconds {
			return unixDate(int64(math.Copysign(maxUnixSeconds, f))), nil
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil

	case KindString:
		s, _ := v.AsString()
		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: expected unix timestamp, got %q", errNotNumericDate, s)
		}
		return unixDate(sec), nil

	default:
		return time.Time{}, fmt.Errorf("%w: got %s", errNotNumericDate, v.Kind())
	}
}

func unixDate(sec int64) time.Time {
	sec = min(max(sec, -maxUnixSeconds), maxUnixSeconds)
	return time.Unix(sec, 0).UTC()
}
