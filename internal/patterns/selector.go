package patterns

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Selector picks the next pattern index out of n.
type Selector interface {
	Next(n int) int
}

// Uniform picks patterns uniformly at random.
type Uniform struct {
	rnd *rand.Rand
}

// NewUniform returns a Uniform selector seeded with the current time.
func NewUniform() *Uniform {
	return NewUniformSeed(time.Now().UnixNano())
}

// NewUniformSeed returns a Uniform selector with a fixed seed.
func NewUniformSeed(seed int64) *Uniform {
	return &Uniform{rnd: rand.New(rand.NewSource(seed))}
}

// Next implements Selector.
func (u *Uniform) Next(n int) int {
	if n <= 0 {
		return 0
	}
	return u.rnd.Intn(n)
}

// Sequential cycles through patterns in catalog order.
type Sequential struct {
	next int
}

// NewSequential returns a selector starting at index start.
func NewSequential(start int) *Sequential {
	return &Sequential{next: start}
}

// Next implements Selector.
func (s *Sequential) Next(n int) int {
	if n <= 0 {
		return 0
	}
	idx := ((s.next % n) + n) % n
	s.next = idx + 1
	return idx
}

// Fixed always returns the same index.
type Fixed int

// Next implements Selector.
func (f Fixed) Next(n int) int {
	if n <= 0 || int(f) < 0 || int(f) >= n {
		return 0
	}
	return int(f)
}

// NewSelector builds a selector by name: "uniform" (default), "sequential"
// or "fixed". A zero seed means time-seeded.
func NewSelector(kind string, seed int64, start int) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "uniform", "random":
		if seed == 0 {
			return NewUniform(), nil
		}
		return NewUniformSeed(seed), nil
	case "sequential":
		return NewSequential(start), nil
	case "fixed":
		return Fixed(start), nil
	default:
		return nil, fmt.Errorf("unknown selector %q (available: uniform, sequential, fixed)", kind)
	}
}

// Weighted picks patterns with probability proportional to their weights.
type Weighted struct {
	rnd     *rand.Rand
	weights []float64
	total   float64
}

// NewWeighted returns a Weighted selector. A zero seed means time-seeded.
func NewWeighted(seed int64, weights []float64) *Weighted {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := &Weighted{rnd: rand.New(rand.NewSource(seed)), weights: weights}
	for _, v := range weights {
		if v > 0 {
			w.total += v
		}
	}
	return w
}

// Next implements Selector. It falls back to uniform selection when the
// weights do not cover n patterns.
func (w *Weighted) Next(n int) int {
	if n <= 0 {
		return 0
	}
	if len(w.weights) != n || w.total <= 0 {
		return w.rnd.Intn(n)
	}
	r := w.rnd.Float64() * w.total
	acc := 0.0
	for i, v := range w.weights {
		if v <= 0 {
			continue
		}
		acc += v
		if r < acc {
			return i
		}
	}
	return n - 1
}

// FocusWeights weights every catalog pattern 1, plus factor for the named
// weak patterns.
func FocusWeights(weak map[string]struct{}, factor float64) []float64 {
	weights := make([]float64, len(catalog))
	for i, e := range catalog {
		weights[i] = 1
		if _, ok := weak[e.Name]; ok {
			weights[i] += factor
		}
	}
	return weights
}
