package order

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-Z]{4}$`)

func TestNewOrderNumberFormat(t *testing.T) {
	n := NewOrderNumber(time.Now())
	assert.Regexp(t, orderNumberPattern, n)
}

func TestNewOrderNumberEncodesTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	n := NewOrderNumber(at)

	parts := strings.Split(n, "-")
	require.Len(t, parts, 3)

	ms, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64)
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), ms)
}

func TestNewOrderNumberRandomSuffixVaries(t *testing.T) {
	at := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewOrderNumber(at)] = true
	}
	// same millisecond, so all variation comes from the suffix
	assert.Greater(t, len(seen), 1)
}
