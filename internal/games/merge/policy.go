package merge

import "math/rand"

// MaxSpawnPool caps how many of the lowest ranks can be spawned.
const MaxSpawnPool = 5

// SpawnPolicy chooses the rank of each new piece. Choices are uniform over
// the lowest ranks, never repeating the previous spawn when more than one
// rank is eligible. The following rank is rolled in advance so it can be
// previewed.
type SpawnPolicy struct {
	rng  *rand.Rand
	pool int
	prev int
	next int
}

// NewSpawnPolicy creates a policy drawing from the lowest min(pool, 5,
// ranks) ranks.
func NewSpawnPolicy(rng *rand.Rand, pool, ranks int) *SpawnPolicy {
	pool = min(pool, MaxSpawnPool, ranks)
	if pool < 1 {
		pool = 1
	}
	p := &SpawnPolicy{rng: rng, pool: pool, prev: -1}
	p.next = p.roll(-1)
	return p
}

// Pool returns the number of eligible ranks.
func (p *SpawnPolicy) Pool() int {
	return p.pool
}

// Peek returns the rank the next call to Next will yield.
func (p *SpawnPolicy) Peek() int {
	return p.next
}

// Previous returns the last rank handed out, or -1 before the first spawn.
func (p *SpawnPolicy) Previous() int {
	return p.prev
}

// Next consumes the pre-rolled rank and rolls the one after it.
func (p *SpawnPolicy) Next() int {
	r := p.next
	p.prev = r
	p.next = p.roll(r)
	return r
}

// roll picks uniformly among the pool excluding one rank.
func (p *SpawnPolicy) roll(exclude int) int {
	if p.pool == 1 {
		return 0
	}
	if exclude < 0 || exclude >= p.pool {
		return p.rng.Intn(p.pool)
	}
	r := p.rng.Intn(p.pool - 1)
	if r >= exclude {
		r++
	}
	return r
}
