package routing

import (
	"log/slog"
	"sort"
	"time"

	"github.com/storyai/wellspring/ai/cache"
	"github.com/storyai/wellspring/ai/metrics"
)

// Service classifies queries to intents with caching and the continuity
// tie-break. Classification itself is pure; the per-session last-intent
// record is the only state, and it exists solely for tie-breaking.
type Service struct {
	matcher *Matcher

	// decisionCache caches classification per query text.
	decisionCache *cache.LRUCache[string, Intent]

	// lastIntent remembers the last executed intent per session for the
	// continuity bias on ties.
	lastIntent *cache.LRUCache[string, Intent]

	exporter *metrics.PrometheusExporter
}

// Config configures the routing service.
type Config struct {
	CacheCapacity int           // decision cache size (default 500)
	CacheTTL      time.Duration // decision cache TTL (default 5m)

	// Exporter receives decision cache hit/miss counts. May be nil.
	Exporter *metrics.PrometheusExporter
}

// NewService creates a routing service.
func NewService(cfg Config) *Service {
	capacity := cfg.CacheCapacity
	if capacity <= 0 {
		capacity = 500
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		matcher:       NewMatcher(),
		decisionCache: cache.NewLRUCache[string, Intent](capacity, ttl),
		lastIntent:    cache.NewLRUCache[string, Intent](1000, time.Hour),
		exporter:      cfg.Exporter,
	}
}

// ClassifyIntent classifies a free-form query. Tie-break policy: if several
// intents score equally, prefer the intent already executed in this session
// (continuity bias), else the lexically-first intent. Returns IntentUnknown
// with zero confidence when nothing matches.
func (s *Service) ClassifyIntent(sessionID, query string) (Intent, float64) {
	if cached, ok := s.decisionCache.Get(query); ok {
		if s.exporter != nil {
			s.exporter.RecordCacheHit("routing_decision")
		}
		slog.Debug("routing: cache hit", "intent", cached)
		return cached, 1
	}
	if s.exporter != nil {
		s.exporter.RecordCacheMiss("routing_decision")
	}

	result := s.matcher.Match(query)
	if !result.Matched {
		return IntentUnknown, 0
	}

	intent := s.pickIntent(sessionID, result.Scores)
	// Session continuity is per-session state; only cache decisions that
	// did not depend on it.
	if !s.wasTie(result.Scores) {
		s.decisionCache.SetWithDefaultTTL(query, intent)
	}

	slog.Debug("routing: classified",
		"intent", intent,
		"confidence", result.Confidence,
		"candidates", len(result.Scores))
	return intent, result.Confidence
}

// RecordExecution records the intent that actually executed for a session.
// Feeds the continuity bias.
func (s *Service) RecordExecution(sessionID string, intent Intent) {
	if sessionID == "" || !intent.IsKnown() {
		return
	}
	s.lastIntent.SetWithDefaultTTL(sessionID, intent)
}

func (s *Service) pickIntent(sessionID string, scores []Score) Intent {
	best := 0.0
	for _, score := range scores {
		if score.Value > best {
			best = score.Value
		}
	}

	var tied []Intent
	for _, score := range scores {
		if score.Value == best {
			tied = append(tied, score.Intent)
		}
	}

	if len(tied) == 1 {
		return tied[0]
	}

	// Continuity bias: stay with the chain already running in this session.
	if sessionID != "" {
		if last, ok := s.lastIntent.Get(sessionID); ok {
			for _, intent := range tied {
				if intent == last {
					return intent
				}
			}
		}
	}

	// Deterministic default: lexically-first intent.
	sort.Slice(tied, func(i, j int) bool { return tied[i] < tied[j] })
	return tied[0]
}

func (s *Service) wasTie(scores []Score) bool {
	best := 0.0
	count := 0
	for _, score := range scores {
		if score.Value > best {
			best = score.Value
			count = 1
		} else if score.Value == best {
			count++
		}
	}
	return count > 1
}
