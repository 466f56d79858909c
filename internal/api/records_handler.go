package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gridbase/fieldconf/internal/logger"
	"github.com/gridbase/fieldconf/internal/models"
	"github.com/gridbase/fieldconf/internal/records"
)

type RecordsHandler struct {
	service *records.Service
}

func NewRecordsHandler(service *records.Service) *RecordsHandler {
	return &RecordsHandler{service: service}
}

func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	tableName := mux.Vars(r)["table"]

	opts := records.ListOptions{Filters: map[string]string{}}
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "start":
			if _, err := fmt.Sscanf(values[0], "%d", &opts.Offset); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		case "limit":
			if _, err := fmt.Sscanf(values[0], "%d", &opts.Limit); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		default:
			opts.Filters[key] = values[0]
		}
	}

	rows, total, err := h.service.List(r.Context(), tableName, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, models.RecordListResponse{
		Records:    rows,
		TotalCount: total,
	})
}

func (h *RecordsHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	tableName := mux.Vars(r)["table"]

	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Create(r.Context(), tableName, values); err != nil {
		if errors.Is(err, records.ErrEmptyRecord) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "Record created"}); err != nil {
		logger.Log.Error("failed to write response", "error", err)
	}
}
