package channel

import (
	"math"
	"sync/atomic"
)

func storeFloat(u *atomic.Uint64, v float64) {
	u.Store(math.Float64bits(v))
}

func loadFloat(u *atomic.Uint64) float64 {
	return math.Float64frombits(u.Load())
}
