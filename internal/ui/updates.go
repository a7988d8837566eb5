package ui

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// handleUpdates is the long-lived SSE endpoint. Every store mutation bumps a
// version signal on the stream; clients re-fetch the workbook when it moves.
// The snapshot itself stays on the GET endpoint, the stream only signals
// staleness.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	version := 0
	push := func() {
		version++
		if err := sse.MarshalAndPatchSignals(map[string]any{"version": version}); err != nil {
			s.logger.Debug("update push failed", "error", err)
		}
	}
	push()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			push()
		}
	}
}
