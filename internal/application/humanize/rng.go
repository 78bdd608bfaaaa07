package humanize

import (
	"math/rand/v2"
)

// Rand 随机源，每次调用独立创建
type Rand interface {
	Float64() float64
}

// RandFactory 为每次改写创建新的随机源
type RandFactory func() Rand

// NewRand 创建非确定性随机源
func NewRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// SeededFactory 相同种子产生相同序列
func SeededFactory(seed uint64) RandFactory {
	return func() Rand {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func chance(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

func intn(r Rand, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func pick(r Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[intn(r, len(items))]
}
