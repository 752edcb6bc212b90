package order

import (
	"strconv"
	"strings"
	"time"

	"velora/utils"
)

// NewOrderNumber builds the externally-shared order identifier:
// ORD-<base36 ms timestamp>-<base36 random suffix>. Uniqueness is
// enforced by the unique index on orders.orderNumber, not here; a
// collision fails the insert with a retryable conflict.
func NewOrderNumber(now time.Time) string {
	timestamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "ORD-" + timestamp + "-" + utils.GenerateBase36String(4)
}
