package liveactivity

import (
	"context"
	"net/http"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	log "github.com/sirupsen/logrus"
)

type statusReader interface {
	Current(ctx context.Context) (*LiveStatus, error)
}

// Handler exposes the latest broadcast status to clients that cannot subscribe to the channel.
type Handler struct {
	reader statusReader
}

func NewHandler(reader statusReader) *Handler {
	return &Handler{
		reader: reader,
	}
}

func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.liveactivity.current")
	defer span.End()

	status, err := h.reader.Current(ctx)
	if err != nil {
		log.Errorf("get live status: %s", err)
		http.Error(w, "failed to get live status", http.StatusInternalServerError)
		return
	}
	if status == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	pkg.WriteJSON(w, status, http.StatusOK)
}
