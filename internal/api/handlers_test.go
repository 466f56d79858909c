package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gridbase/fieldconf/internal/api"
	"github.com/gridbase/fieldconf/internal/constraint"
	"github.com/gridbase/fieldconf/internal/inspector"
	"github.com/gridbase/fieldconf/internal/models"
	"github.com/gridbase/fieldconf/internal/patch"
	"github.com/gridbase/fieldconf/internal/repo"
	"github.com/gridbase/fieldconf/internal/session"
)

type fakeRepository struct {
	columns map[string][]models.Column
}

func (f *fakeRepository) InitializeDatabase(ctx context.Context) error {
	return nil
}

func (f *fakeRepository) LoadColumns(ctx context.Context, tableName string) ([]models.Column, error) {
	cols, ok := f.columns[tableName]
	if !ok {
		return nil, repo.ErrUnknownTable
	}
	return cols, nil
}

func (f *fakeRepository) ApplyChangeSet(ctx context.Context, tableName string, changes patch.ChangeSet) error {
	return nil
}

func (f *fakeRepository) Close() error {
	return nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	repository := &fakeRepository{columns: map[string][]models.Column{
		"users": {
			{
				Name:      "id",
				FieldType: models.FieldTypeNumber,
				BaseOptions: models.BaseOptions{
					Required:   true,
					Visibility: models.Visibility{models.ViewIndex, models.ViewShow},
				},
				DataSourceInfo: models.DataSourceInfo{Type: "bigint"},
			},
			{
				Name:      "email",
				FieldType: models.FieldTypeText,
				BaseOptions: models.BaseOptions{
					Visibility: models.Visibility{models.ViewIndex, models.ViewShow, models.ViewEdit},
				},
				DataSourceInfo: models.DataSourceInfo{Type: "varchar", Nullable: true},
			},
		},
	}}
	manager := session.NewManager(repository, constraint.NewEngine())
	sessionHandler := api.NewSessionHandler(manager, inspector.NewRegistry())
	recordsHandler := api.NewRecordsHandler(nil)
	return api.SetupRoutes(sessionHandler, recordsHandler, nil, "http://localhost:5173")
}

func openSession(t *testing.T, router *mux.Router) models.OpenSessionResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tables/users/sessions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("open session status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.OpenSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp
}

func TestOpenSessionUnknownTable(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tables/ghosts/sessions", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMutateAndPreviewChanges(t *testing.T) {
	router := newTestRouter(t)
	opened := openSession(t, router)
	if len(opened.Columns) != 2 {
		t.Fatalf("opened with %d columns", len(opened.Columns))
	}

	body := strings.NewReader(`{"path":"baseOptions.nullable","value":true}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/v1/sessions/"+opened.SessionID+"/columns/email", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("mutate status = %d: %s", rec.Code, rec.Body.String())
	}

	var mutated models.MutateResponse
	if err := json.NewDecoder(rec.Body).Decode(&mutated); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !mutated.Dirty || !mutated.Column.BaseOptions.Nullable {
		t.Errorf("mutate response = %+v", mutated)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/sessions/"+opened.SessionID+"/changes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("changes status = %d", rec.Code)
	}
	var changes models.ChangesResponse
	if err := json.NewDecoder(rec.Body).Decode(&changes); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !changes.Dirty {
		t.Error("changes not dirty after mutate")
	}
	if _, ok := changes.Changes["email"]; !ok {
		t.Errorf("changes = %v", changes.Changes)
	}
	if _, ok := changes.Changes["id"]; ok {
		t.Error("untouched column in change preview")
	}
}

func TestMutateErrorStatuses(t *testing.T) {
	router := newTestRouter(t)
	opened := openSession(t, router)

	tests := []struct {
		name       string
		column     string
		body       string
		wantStatus int
	}{
		{"unknown column", "missing", `{"path":"baseOptions.required","value":true}`, http.StatusNotFound},
		{"invalid path", "email", `{"path":"baseOptions.bogus","value":true}`, http.StatusBadRequest},
		{"invalid value", "email", `{"path":"baseOptions.required","value":"yes"}`, http.StatusBadRequest},
		{"physically not nullable", "id", `{"path":"baseOptions.nullable","value":true}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("PATCH", "/api/v1/sessions/"+opened.SessionID+"/columns/"+tt.column, strings.NewReader(tt.body))
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestSaveAndDiscard(t *testing.T) {
	router := newTestRouter(t)
	opened := openSession(t, router)

	body := strings.NewReader(`{"path":"baseOptions.help","value":"unique per account"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/v1/sessions/"+opened.SessionID+"/columns/email", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("mutate status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/sessions/"+opened.SessionID+"/save", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	var saved models.SaveResponse
	if err := json.NewDecoder(rec.Body).Decode(&saved); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !saved.Saved || saved.Applied != 1 {
		t.Errorf("save response = %+v", saved)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/v1/sessions/"+opened.SessionID, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("discard status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/sessions/"+opened.SessionID+"/columns", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("discarded session status = %d, want 404", rec.Code)
	}
}

func TestGetInspector(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/inspectors/number", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var d inspector.Descriptor
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if d.Component != "number-inspector" {
		t.Errorf("component = %q", d.Component)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/inspectors/geo_point", nil))
	var fallback inspector.Descriptor
	if err := json.NewDecoder(rec.Body).Decode(&fallback); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if fallback.Component != "none" {
		t.Errorf("fallback component = %q", fallback.Component)
	}
}
