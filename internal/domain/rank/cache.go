package rank

import "time"

type Cache interface {
	Get(limit int) ([]Entry, bool)
	Set(limit int, entries []Entry, ttl time.Duration)
	Clear()
}

type noopCache struct{}

func (noopCache) Get(int) ([]Entry, bool) {
	return nil, false
}

func (noopCache) Set(int, []Entry, time.Duration) {}

func (noopCache) Clear() {}
