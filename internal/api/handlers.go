package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gridbase/fieldconf/internal/constraint"
	"github.com/gridbase/fieldconf/internal/inspector"
	"github.com/gridbase/fieldconf/internal/logger"
	"github.com/gridbase/fieldconf/internal/models"
	"github.com/gridbase/fieldconf/internal/repo"
	"github.com/gridbase/fieldconf/internal/session"
	"github.com/gridbase/fieldconf/internal/store"
)

type SessionHandler struct {
	manager  *session.Manager
	registry *inspector.Registry
}

func NewSessionHandler(manager *session.Manager, registry *inspector.Registry) *SessionHandler {
	return &SessionHandler{
		manager:  manager,
		registry: registry,
	}
}

func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tableName := vars["table"]

	s, err := h.manager.Open(r.Context(), tableName)
	if err != nil {
		if errors.Is(err, repo.ErrUnknownTable) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, models.OpenSessionResponse{
		SessionID: s.ID,
		TableName: s.TableName,
		Columns:   s.Columns(),
	})
}

func (h *SessionHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, models.ColumnsResponse{
		SessionID: s.ID,
		Columns:   s.Columns(),
	})
}

func (h *SessionHandler) MutateColumn(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]

	var req models.MutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	column, dirty, err := s.Mutate(name, req.Path, req.Value)
	if err != nil {
		writeMutateError(w, err)
		return
	}

	writeJSON(w, models.MutateResponse{
		Column: column,
		Dirty:  dirty,
	})
}

func (h *SessionHandler) GetChanges(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	changes, dirty, err := s.Changes()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload := make(map[string]any, len(changes))
	for name, p := range changes {
		payload[name] = p
	}
	writeJSON(w, models.ChangesResponse{
		Dirty:   dirty,
		Changes: payload,
	})
}

func (h *SessionHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	applied, err := h.manager.Save(r.Context(), s.ID)
	if err != nil {
		logger.Log.Error("save failed", "session_id", s.ID, "table", s.TableName, "error", err)

		var colErr *repo.ColumnError
		if errors.As(err, &colErr) {
			http.Error(w, colErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, models.SaveResponse{
		Saved:   true,
		Applied: applied,
	})
}

func (h *SessionHandler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionID"]
	if !h.manager.Discard(id) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) GetInspector(w http.ResponseWriter, r *http.Request) {
	fieldType := models.FieldType(mux.Vars(r)["fieldType"])

	ins := h.registry.Lookup(fieldType)
	writeJSON(w, ins.Describe(models.Column{FieldType: fieldType}))
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := mux.Vars(r)["sessionID"]
	s, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func writeMutateError(w http.ResponseWriter, err error) {
	var notFound *store.NotFoundError
	var invalidPath *models.InvalidPathError
	var invalidValue *models.InvalidValueError

	switch {
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &invalidPath), errors.As(err, &invalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, constraint.ErrNotNullable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Error("failed to write response", "error", err)
	}
}
