package resetcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDescribeExpiry(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want string
	}{
		{ttl: 0, want: "1 minute"},
		{ttl: 20 * time.Second, want: "1 minute"},
		{ttl: time.Minute, want: "1 minute"},
		{ttl: 90 * time.Second, want: "2 minutes"},
		{ttl: 30 * time.Minute, want: "30 minutes"},
		{ttl: time.Hour, want: "1 hour"},
		{ttl: 90 * time.Minute, want: "1 hour 30 minutes"},
		{ttl: 125 * time.Minute, want: "2 hours 5 minutes"},
		{ttl: 3 * time.Hour, want: "3 hours"},
		{ttl: 2*time.Hour + time.Minute, want: "2 hours 1 minute"},
	}

	for _, tt := range tests {
		t.Run(tt.ttl.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeExpiry(tt.ttl))
		})
	}
}
