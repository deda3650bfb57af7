package art0

import "math/rand/v2"

// selector picks images per category without repetition until every image of
// the category has been shown, then starts a fresh window.
type selector struct {
	rng     *rand.Rand
	used    map[Category]map[string]struct{}
	scratch []string
}

func newSelector(rng *rand.Rand) *selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &selector{
		rng:  rng,
		used: make(map[Category]map[string]struct{}),
	}
}

// pick chooses the next image id for cat from ids. It reports false when ids
// is empty.
//
// When the window is exhausted the used set is cleared before choosing, so
// the image that was just shown is eligible again.
func (s *selector) pick(cat Category, ids []string) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	used := s.used[cat]
	if used == nil {
		used = make(map[string]struct{}, len(ids))
		s.used[cat] = used
	}

	s.scratch = s.scratch[:0]
	for _, id := range ids {
		if _, seen := used[id]; !seen {
			s.scratch = append(s.scratch, id)
		}
	}
	pool := s.scratch
	if len(pool) == 0 {
		clear(used)
		pool = ids
	}

	id := pool[s.rng.IntN(len(pool))]
	used[id] = struct{}{}
	return id, true
}

// usedCount reports how many ids of cat are in the current window.
func (s *selector) usedCount(cat Category) int {
	return len(s.used[cat])
}

func (s *selector) reset() {
	clear(s.used)
}
