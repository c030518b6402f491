package resetcode

import (
	"fmt"
	"strings"
	"time"
)

// DescribeExpiry renders ttl as "1 hour", "2 hours 5 minutes" or "30 minutes".
// Partial minutes round up and the result is never below one minute.
func DescribeExpiry(ttl time.Duration) string {
	minutes := int((ttl + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	hours, minutes := minutes/60, minutes%60
	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
