package metricshttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/salespulse/salespulse/internal/metrics"
)

// WithStream enables the live dashboard stream. The concrete service is
// required here because the push feed drives full recomputes through it.
func (h *Handler) WithStream(service *metrics.Service, client *redis.Client) {
	h.streamService = service
	h.streamClient = client
}

// handleStream serves dashboard snapshots over server-sent events. The
// client gets one snapshot immediately, then a fresh one after every
// report submission.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	snapshots := make(chan metrics.Snapshot, 1)
	feed := metrics.NewFeed(h.streamService, h.streamClient, h.logger, q.tenant, q.filter, q.granularity, func(snap metrics.Snapshot) {
		select {
		case snapshots <- snap:
		case <-ctx.Done():
		}
	})

	if err := feed.Refresh(ctx); err != nil {
		h.respondFetchError(w, "load dashboard stream", err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = feed.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return
		case snap := <-snapshots:
			data, err := json.Marshal(struct {
				Summary summaryResponse      `json:"summary"`
				Series  []metrics.Bucket     `json:"series"`
				Growth  metrics.GrowthReport `json:"growth"`
			}{
				Summary: withRatios(snap.Summary),
				Series:  snap.Series,
				Growth:  snap.Growth,
			})
			if err != nil {
				return
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
