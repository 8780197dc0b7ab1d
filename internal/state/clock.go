package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	siteID  = uuid.NewString()
	lamport uint64
)

func nextLamport() uint64 {
	return atomic.AddUint64(&lamport, 1)
}

// SiteID identifies this process in emitted ops.
func SiteID() string {
	return siteID
}

func stamp(op Op) Op {
	op.Lamport = nextLamport()
	op.Site = siteID
	return op
}
