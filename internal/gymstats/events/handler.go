package events

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ListResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.events.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		http.Error(w, "error, invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size < 1 {
		http.Error(w, "error, invalid size", http.StatusBadRequest)
		return
	}

	params := EventParams{}
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		eventType := EventType(typeStr)
		if !eventType.IsValid() {
			http.Error(w, "error, invalid event type", http.StatusBadRequest)
			return
		}
		params.Type = &eventType
	}

	events, err := h.service.List(ctx, ListParams{
		EventParams: params,
		Page:        page,
		Size:        size,
	})
	if err != nil {
		log.Errorf("list events: %s", err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	total, err := h.service.Count(ctx, params)
	if err != nil {
		log.Errorf("count events: %s", err)
		http.Error(w, "failed to count events", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{
		Events: events,
		Total:  total,
	})
	if err != nil {
		log.Errorf("failed to marshal events: %s", err)
		http.Error(w, "failed to marshal events", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
