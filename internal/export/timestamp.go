package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTimestamp renders an offset in seconds as HH:MM:SS,mmm. Hours grow past
// two digits when needed; milliseconds are truncated, never rounded up.
// Negative and NaN offsets render as zero.
func FormatTimestamp(seconds float64) string {
	ms := toMillis(seconds)

	h := ms / 3_600_000
	ms %= 3_600_000
	m := ms / 60_000
	ms %= 60_000
	s := ms / 1000
	ms %= 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// toMillis truncates seconds to whole milliseconds on the shortest decimal
// form of the value, so 3661.123 stays 3661123 even though 3661.123*1000 is
// 3661122.9999... in binary.
func toMillis(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	whole, frac, _ := strings.Cut(strconv.FormatFloat(seconds, 'f', -1, 64), ".")
	frac = (frac + "000")[:3]

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > (math.MaxInt64-999)/1000 {
		return math.MaxInt64
	}
	f, _ := strconv.ParseInt(frac, 10, 64)
	return w*1000 + f
}

// FormatVTTTimestamp is FormatTimestamp with WebVTT's period separator.
func FormatVTTTimestamp(seconds float64) string {
	return strings.Replace(FormatTimestamp(seconds), ",", ".", 1)
}
