package prawitz

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TailOracle lower-bounds Pr[X > x] for normalized Rademacher sums whose
// leading coefficient is at most aNum/aDen, with x = xNum/xDen.
type TailOracle interface {
	Bound(aNum, aDen, xNum, xDen int) float64
}

type ratKey struct {
	aNum, aDen int
	xNum, xDen int
}

func (k ratKey) String() string {
	return fmt.Sprintf("%d/%d:%d/%d", k.aNum, k.aDen, k.xNum, k.xDen)
}

// Analytic is the memoized analytic oracle. Results are cached on the reduced
// exact rational arguments, so equal discretized inputs never recompute and
// never miss because of floating-point jitter. Safe for concurrent use.
type Analytic struct {
	epsilon float64

	mu    sync.RWMutex
	cache map[ratKey]float64
	group singleflight.Group
}

// NewAnalytic creates an oracle with the given integration slack.
func NewAnalytic(epsilon float64) *Analytic {
	return &Analytic{
		epsilon: epsilon,
		cache:   make(map[ratKey]float64),
	}
}

// NewDefaultAnalytic creates an oracle with DefaultEpsilon.
func NewDefaultAnalytic() *Analytic {
	return NewAnalytic(DefaultEpsilon)
}

// Bound implements TailOracle. Denominators must be positive.
func (o *Analytic) Bound(aNum, aDen, xNum, xDen int) float64 {
	if aDen <= 0 || xDen <= 0 {
		panic(fmt.Sprintf("prawitz: non-positive denominator in Bound(%d/%d, %d/%d)", aNum, aDen, xNum, xDen))
	}
	a := float64(aNum) / float64(aDen)
	if a < canonicalSmallA {
		return o.Bound(1, 10, xNum, xDen)
	}

	key := reduce(aNum, aDen, xNum, xDen)
	o.mu.RLock()
	v, ok := o.cache[key]
	o.mu.RUnlock()
	if ok {
		return v
	}

	out, _, _ := o.group.Do(key.String(), func() (interface{}, error) {
		o.mu.RLock()
		v, ok := o.cache[key]
		o.mu.RUnlock()
		if ok {
			return v, nil
		}
		v = analyticBound(float64(key.aNum)/float64(key.aDen), float64(key.xNum)/float64(key.xDen), o.epsilon)
		o.mu.Lock()
		o.cache[key] = v
		o.mu.Unlock()
		return v, nil
	})
	return out.(float64)
}

// CacheSize returns the number of distinct arguments computed so far.
func (o *Analytic) CacheSize() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.cache)
}

func reduce(aNum, aDen, xNum, xDen int) ratKey {
	ga := gcd(abs(aNum), aDen)
	gx := gcd(abs(xNum), xDen)
	return ratKey{aNum: aNum / ga, aDen: aDen / ga, xNum: xNum / gx, xDen: xDen / gx}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
