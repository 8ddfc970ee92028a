// Package cart keeps a visitor's line items in the guest store until login and
// in the per-user remote store afterwards, and reconciles the two at login.
package cart

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/lucsky/cuid"
)

// LineItemKey is the identity of a line item within one cart. Two items with
// the same product and variant are the same line; a missing variant is "".
func LineItemKey(productID, variant string) string {
	return productID + "\x00" + variant
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewGuestItemID returns a client-style id: guest-<epoch millis>-<9 base36 chars>.
func NewGuestItemID(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("guest-")
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	sb.WriteByte('-')
	for i := 0; i < 9; i++ {
		sb.WriteByte(base36[rand.IntN(len(base36))])
	}
	return sb.String()
}

// NewRemoteItemID returns a server-assigned line item id.
func NewRemoteItemID() string {
	return cuid.New()
}
