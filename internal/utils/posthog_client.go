// posthog_client.go wraps the posthog.Client so callers never have to care
// whether analytics is configured.
package utils

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper publishes domain events to PostHog. With an empty API
// key it degrades to a no-op, which is also what tests use.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializePosthogClient creates the wrapper. An empty apiKey yields an
// uninitialized (no-op) client.
func InitializePosthogClient(apiKey string, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{}
	}
	wrapper := PosthogClientWrapper{logger: logger}
	wrapper.posthogClient, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	return &wrapper
}

// IsInitialized reports whether events will actually be delivered.
func (w *PosthogClientWrapper) IsInitialized() bool {
	return w.posthogClient != nil
}

// Publish enqueues a domain event. Fire-and-forget; delivery failures are
// never surfaced to the caller.
func (w *PosthogClientWrapper) Publish(ctx context.Context, distinctID string, event string, properties map[string]any) {
	if w.posthogClient == nil {
		return
	}
	if w.logger != nil {
		w.logger.Info("Enqueueing event", slog.String("distinct_id", distinctID), slog.String("event", event), slog.Any("properties", properties))
	}
	w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
}

// Close flushes and shuts down the underlying client.
func (w *PosthogClientWrapper) Close() {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Close()
}
