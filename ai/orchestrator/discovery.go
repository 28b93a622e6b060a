package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/storyai/wellspring/ai/cache"
	"github.com/storyai/wellspring/ai/errclass"
	"github.com/storyai/wellspring/ai/metrics"
)

// AgentHandle identifies a discovered external agent.
type AgentHandle struct {
	AgentID      string   `json:"agent_id"`
	Capabilities []string `json:"capabilities"`
	Endpoint     string   `json:"endpoint"`
}

// Discovery resolves a capability tag to an agent able to serve it.
type Discovery interface {
	Find(ctx context.Context, capability string) (*AgentHandle, error)
}

// HTTPDiscovery queries a registry endpoint for agents by capability.
type HTTPDiscovery struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDiscovery creates a registry client. Timeout bounds every lookup.
func NewHTTPDiscovery(baseURL string, timeout time.Duration) *HTTPDiscovery {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPDiscovery{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Find queries the registry for the first agent advertising the capability.
func (d *HTTPDiscovery) Find(ctx context.Context, capability string) (*AgentHandle, error) {
	if d.baseURL == "" {
		return nil, fmt.Errorf("capability %s: no registry configured: %w", capability, errclass.ErrAgentNotFound)
	}

	endpoint := fmt.Sprintf("%s/agents?capability=%s", d.baseURL, url.QueryEscape(capability))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "discovery: build request")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("capability %s: %w", capability, errclass.ErrTimeout)
		}
		return nil, errors.Wrap(err, "discovery: lookup")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("capability %s: %w", capability, errclass.ErrAgentNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("discovery: registry returned status %d", resp.StatusCode)
	}

	var handles []AgentHandle
	if err := json.NewDecoder(resp.Body).Decode(&handles); err != nil {
		return nil, errors.Wrap(err, "discovery: decode response")
	}
	if len(handles) == 0 {
		return nil, fmt.Errorf("capability %s: %w", capability, errclass.ErrAgentNotFound)
	}
	return &handles[0], nil
}

// CachedDiscovery caches resolved handles so repeated lookups for the same
// capability skip the registry. Negative results are not cached: an agent
// absent now may register later.
type CachedDiscovery struct {
	inner    Discovery
	lru      *cache.LRUCache[string, *AgentHandle]
	exporter *metrics.PrometheusExporter
}

// NewCachedDiscovery wraps a discovery with an LRU handle cache. The
// exporter may be nil.
func NewCachedDiscovery(inner Discovery, ttl time.Duration, exporter *metrics.PrometheusExporter) *CachedDiscovery {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedDiscovery{
		inner:    inner,
		lru:      cache.NewLRUCache[string, *AgentHandle](128, ttl),
		exporter: exporter,
	}
}

// Find returns the cached handle when present, otherwise delegates and
// caches the result.
func (c *CachedDiscovery) Find(ctx context.Context, capability string) (*AgentHandle, error) {
	if handle, ok := c.lru.Get(capability); ok {
		if c.exporter != nil {
			c.exporter.RecordCacheHit("agent_handle")
		}
		return handle, nil
	}
	if c.exporter != nil {
		c.exporter.RecordCacheMiss("agent_handle")
	}

	handle, err := c.inner.Find(ctx, capability)
	if err != nil {
		return nil, err
	}

	c.lru.SetWithDefaultTTL(capability, handle)
	slog.Debug("discovery: handle cached", "capability", capability, "agent_id", handle.AgentID)
	return handle, nil
}

// Invalidate drops a cached handle, used after a send to it fails.
func (c *CachedDiscovery) Invalidate(capability string) {
	c.lru.Remove(capability)
}
