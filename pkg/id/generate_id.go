package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (a v4 UUID without separators).
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Receipt builds a payment receipt reference such as "feat_<id>". Gateways cap
// receipts at 40 characters, so the result is truncated to fit.
func Receipt(kind, publicID string) string {
	r := kind + "_" + publicID
	if len(r) > 40 {
		r = r[:40]
	}
	return r
}
