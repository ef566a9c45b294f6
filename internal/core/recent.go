package core

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	// DefaultHistoryWindow is how many rendered messages the dedup cache
	// keeps when no configuration overrides it.
	DefaultHistoryWindow = 20
	// DefaultHistoryLookback bounds the content comparison around the
	// incoming timestamp.
	DefaultHistoryLookback = 10 * time.Second
)

type recentEntry struct {
	ts      time.Time
	content string
}

// RecentMessages guards against double-insertion when a server replays
// history right after a join. It remembers the last rendered messages and
// flags a replayed message whose timestamp exactly matches a rendered one,
// or whose content matches a rendered message within the lookback window.
type RecentMessages struct {
	cache    *lru.Cache
	lookback time.Duration
}

func NewRecentMessages(window int, lookback time.Duration) *RecentMessages {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if lookback <= 0 {
		lookback = DefaultHistoryLookback
	}
	cache, _ := lru.New(window)
	return &RecentMessages{cache: cache, lookback: lookback}
}

// Remember records a rendered message.
func (r *RecentMessages) Remember(uid, content string, ts time.Time) {
	r.cache.Add(uid, recentEntry{ts: ts, content: content})
}

// IsReplay reports whether an incoming history-flagged message was already
// rendered.
func (r *RecentMessages) IsReplay(content string, ts time.Time) bool {
	for _, key := range r.cache.Keys() {
		v, ok := r.cache.Peek(key)
		if !ok {
			continue
		}
		entry := v.(recentEntry)
		if ts.Equal(entry.ts) {
			return true
		}
		delta := ts.Sub(entry.ts)
		if delta < 0 {
			delta = -delta
		}
		if delta <= r.lookback && content == entry.content {
			return true
		}
	}
	return false
}
