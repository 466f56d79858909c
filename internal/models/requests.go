package models

type OpenSessionResponse struct {
	SessionID string   `json:"session_id"`
	TableName string   `json:"table_name"`
	Columns   []Column `json:"columns"`
}

type ColumnsResponse struct {
	SessionID string   `json:"session_id"`
	Columns   []Column `json:"columns"`
}

type MutateRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type MutateResponse struct {
	Column Column `json:"column"`
	Dirty  bool   `json:"dirty"`
}

type ChangesResponse struct {
	Dirty   bool           `json:"dirty"`
	Changes map[string]any `json:"changes"`
}

type SaveResponse struct {
	Saved   bool `json:"saved"`
	Applied int  `json:"applied"`
}

type RecordListResponse struct {
	Records    []map[string]any `json:"records"`
	TotalCount int              `json:"total_count"`
}
