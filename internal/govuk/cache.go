package govuk

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const holidaysCacheKey = "bank-holidays"

// CachedSource decorates a Source with an in-memory TTL cache so the feed is
// not re-fetched on every request. Fetch failures are never cached and never
// replaced with an empty list.
type CachedSource struct {
	source Source
	cache  *cache.Cache
	ttl    time.Duration
}

// NewCachedSource wraps the source with a cache holding entries for ttl.
func NewCachedSource(source Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// GetBankHolidays returns the cached holiday list, fetching through on a
// miss.
func (s *CachedSource) GetBankHolidays(ctx context.Context) ([]time.Time, error) {
	if cached, found := s.cache.Get(holidaysCacheKey); found {
		return cached.([]time.Time), nil
	}

	holidays, err := s.source.GetBankHolidays(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(holidaysCacheKey, holidays, s.ttl)
	return holidays, nil
}
