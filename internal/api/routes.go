package api

import (
	"github.com/gorilla/mux"
	"github.com/gridbase/fieldconf/internal/auth"
)

func SetupRoutes(sessionHandler *SessionHandler, recordsHandler *RecordsHandler, jwtVerifier *auth.JWTVerifier, allowedOrigin string) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(allowedOrigin))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(auth.Middleware(jwtVerifier))

	r.HandleFunc("/api/v1/tables/{table}/sessions", sessionHandler.OpenSession).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{sessionID}/columns", sessionHandler.GetColumns).Methods("GET")
	r.HandleFunc("/api/v1/sessions/{sessionID}/columns/{name}", sessionHandler.MutateColumn).Methods("PATCH")
	r.HandleFunc("/api/v1/sessions/{sessionID}/changes", sessionHandler.GetChanges).Methods("GET")
	r.HandleFunc("/api/v1/sessions/{sessionID}/save", sessionHandler.SaveSession).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{sessionID}", sessionHandler.DiscardSession).Methods("DELETE")

	r.HandleFunc("/api/v1/inspectors/{fieldType}", sessionHandler.GetInspector).Methods("GET")

	// Record access is table-adjacent: it shares identifiers with the
	// configuration surface but never goes through an edit session.
	r.HandleFunc("/api/v1/tables/{table}/records", recordsHandler.ListRecords).Methods("GET")
	r.HandleFunc("/api/v1/tables/{table}/records", recordsHandler.CreateRecord).Methods("POST")

	return r
}
