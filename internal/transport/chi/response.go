package chi

import (
	"encoding/json"
	"net/http"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/result"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/translit"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
	searchuc "github.com/kailas-cloud/scriptsearch/internal/usecase/search"
)

// ErrorCode is the machine-readable error class in an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeViewNotFound       ErrorCode = "view_not_found"
	ErrorCodeUnsupportedLookup  ErrorCode = "unsupported_lookup"
	ErrorCodeNotImplemented     ErrorCode = "not_implemented"
	ErrorCodeInternalError      ErrorCode = "internal_error"
	ErrorCodeServiceUnavailable ErrorCode = "service_unavailable"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RecordListResponse is one page of a view listing.
type RecordListResponse struct {
	Count    int                 `json:"count"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	HasNext  bool                `json:"has_next"`
	Results  []map[string]string `json:"results"`
}

// RelationResponse describes a view relation.
type RelationResponse struct {
	Name  string `json:"name"`
	Table string `json:"table"`
	Many  bool   `json:"many"`
}

// ViewResponse describes a declared view.
type ViewResponse struct {
	Name         string             `json:"name"`
	Table        string             `json:"table"`
	PrimaryKey   string             `json:"primary_key"`
	Columns      []string           `json:"columns"`
	SearchFields []string           `json:"search_fields"`
	Relations    []RelationResponse `json:"relations,omitempty"`
}

// ViewListResponse lists the declared views.
type ViewListResponse struct {
	Items []ViewResponse `json:"items"`
}

// ExplainResponse describes the condition a search would run.
type ExplainResponse struct {
	View        string              `json:"view"`
	Terms       []string            `json:"terms"`
	Scripts     []translit.Detected `json:"scripts"`
	Latin       []string            `json:"latin"`
	Cyrillic    []string            `json:"cyrillic"`
	Fields      []string            `json:"fields"`
	Where       string              `json:"where"`
	Leaves      int                 `json:"leaves"`
	Distinct    bool                `json:"distinct"`
	PassThrough bool                `json:"pass_through"`
}

// TranslitResponse is the output of a single transliteration.
type TranslitResponse struct {
	Input    string            `json:"input"`
	Script   translit.Script   `json:"script"`
	Output   string            `json:"output"`
	Detected translit.Detected `json:"detected"`
}

// HealthResponse reports the aggregated health status.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func pageToResponse(p result.Page) RecordListResponse {
	rows := make([]map[string]string, len(p.Results))
	for i := range p.Results {
		rows[i] = p.Results[i].Fields()
	}
	return RecordListResponse{
		Count:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		HasNext:  p.HasNext(),
		Results:  rows,
	}
}

func viewToResponse(v view.View) ViewResponse {
	resp := ViewResponse{
		Name:         v.Name(),
		Table:        v.Table(),
		PrimaryKey:   v.PrimaryKey(),
		Columns:      v.Columns(),
		SearchFields: v.SearchFields(),
	}
	for _, r := range v.Relations() {
		resp.Relations = append(resp.Relations, RelationResponse{Name: r.Name, Table: r.Table, Many: r.Many})
	}
	return resp
}

func explanationToResponse(e searchuc.Explanation) ExplainResponse {
	return ExplainResponse{
		View:        e.View,
		Terms:       e.Terms,
		Scripts:     e.Scripts,
		Latin:       e.Latin,
		Cyrillic:    e.Cyrillic,
		Fields:      e.Fields,
		Where:       e.Where,
		Leaves:      e.Leaves,
		Distinct:    e.Distinct,
		PassThrough: e.PassThrough,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
