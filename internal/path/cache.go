package path

import "github.com/sl4ppy/gyruss-tube-shooter/internal/polar"

// cacheKey is the full generation parameter tuple.
type cacheKey struct {
	startAngle  float64
	startRadius float64
	endRadius   float64
	frames      int
	profile     Profile
}

// Cache memoizes generated spirals. Formation members reuse parameter
// tuples across waves, so hit rates are high. Accessed only from the game
// loop goroutine — no locks. Capacity-bounded: when full it is cleared
// wholesale rather than evicting piecemeal; regeneration is cheap and the
// working set per wave is tiny.
type Cache struct {
	max   int
	paths map[cacheKey][]polar.Point
}

// NewCache returns a cache holding at most max paths. max <= 0 picks a
// default of 64.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = 64
	}
	return &Cache{max: max, paths: make(map[cacheKey][]polar.Point, 16)}
}

// Generate returns a cached path for the parameter tuple, generating and
// storing it on miss.
func (c *Cache) Generate(startAngle, startRadius, endRadius float64, frames int, profile Profile) ([]polar.Point, error) {
	key := cacheKey{startAngle, startRadius, endRadius, frames, profile}
	if p, ok := c.paths[key]; ok {
		return p, nil
	}
	p, err := Generate(startAngle, startRadius, endRadius, frames, profile)
	if err != nil {
		return nil, err
	}
	if len(c.paths) >= c.max {
		c.paths = make(map[cacheKey][]polar.Point, 16)
	}
	c.paths[key] = p
	return p, nil
}

// Clear drops every cached path.
func (c *Cache) Clear() {
	c.paths = make(map[cacheKey][]polar.Point, 16)
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	return len(c.paths)
}
