package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/storyai/wellspring/ai/errclass"
)

// Transport delivers a payload to an external agent and returns its reply.
type Transport interface {
	Send(ctx context.Context, handle *AgentHandle, payload string) (string, error)
}

// HTTPTransport posts payloads to agent endpoints. Outbound calls share a
// rate limiter so a burst of routed requests cannot flood one agent.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// TransportConfig configures the HTTP transport.
type TransportConfig struct {
	Timeout time.Duration // per-send deadline (default 15s)
	RPS     float64       // outbound rate limit (default 10/s)
	Burst   int           // limiter burst (default 5)
}

// NewHTTPTransport creates the HTTP agent transport.
func NewHTTPTransport(cfg TransportConfig) *HTTPTransport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	return &HTTPTransport{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		timeout: timeout,
	}
}

type agentEnvelope struct {
	Payload string `json:"payload"`
}

type agentReply struct {
	Result string `json:"result"`
}

// Send posts the payload to the agent endpoint and returns the reply body.
// Deadline overruns map to ErrTimeout so callers can classify them.
func (t *HTTPTransport) Send(ctx context.Context, handle *AgentHandle, payload string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("agent %s: rate limit wait: %w", handle.AgentID, errclass.ErrTimeout)
	}

	body, err := json.Marshal(agentEnvelope{Payload: payload})
	if err != nil {
		return "", errors.Wrap(err, "transport: encode payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, handle.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "transport: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("agent %s: %w", handle.AgentID, errclass.ErrTimeout)
		}
		return "", errors.Wrapf(err, "transport: send to agent %s", handle.AgentID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("transport: agent %s returned status %d", handle.AgentID, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "transport: read reply")
	}

	var reply agentReply
	if err := json.Unmarshal(raw, &reply); err == nil && reply.Result != "" {
		return reply.Result, nil
	}
	// Agents that do not speak the envelope reply with a plain body.
	return string(raw), nil
}
