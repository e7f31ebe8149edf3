package chi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/scriptsearch/internal/domain"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/translit"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
	healthuc "github.com/kailas-cloud/scriptsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/scriptsearch/internal/usecase/search"
)

// DefaultSearchParam is the query parameter carrying the search terms.
const DefaultSearchParam = "search"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// ViewLister lists the declared views.
type ViewLister interface {
	Get(name string) (view.View, bool)
	List() []view.View
}

// Options tunes request parsing.
type Options struct {
	SearchParam string
	Limits      request.Limits
}

// Server serves the view listing API.
type Server struct {
	search        *searchuc.Service
	views         ViewLister
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	views ViewLister,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.SearchParam == "" {
		opts.SearchParam = DefaultSearchParam
	}
	s := &Server{
		search: search,
		views:  views,
		health: health,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		sentinelHandler(domain.ErrViewNotFound, http.StatusNotFound, ErrorCodeViewNotFound),
		lookupErrorHandler,
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, ErrorCodeNotImplemented),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/views", s.ListViews)
		r.Get("/views/{view}", s.GetView)
		r.Get("/views/{view}/records", s.ListRecords)
		r.Get("/views/{view}/explain", s.ExplainSearch)
		r.Get("/translit", s.Transliterate)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// ListViews handles GET /v1/views.
func (s *Server) ListViews(w http.ResponseWriter, _ *http.Request) {
	views := s.views.List()
	items := make([]ViewResponse, len(views))
	for i, v := range views {
		items[i] = viewToResponse(v)
	}
	writeJSON(w, http.StatusOK, ViewListResponse{Items: items})
}

// GetView handles GET /v1/views/{view}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")
	v, ok := s.views.Get(name)
	if !ok {
		s.handleDomainError(w, fmt.Errorf("%w: %s", domain.ErrViewNotFound, name))
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(v))
}

// ListRecords handles GET /v1/views/{view}/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	req, err := s.bindRequest(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page, err := s.search.Search(r.Context(), chi.URLParam(r, "view"), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// ExplainSearch handles GET /v1/views/{view}/explain.
func (s *Server) ExplainSearch(w http.ResponseWriter, r *http.Request) {
	req, err := s.bindRequest(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	e, err := s.search.Explain(chi.URLParam(r, "view"), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, explanationToResponse(e))
}

// Transliterate handles GET /v1/translit. Without a script parameter the text
// is rewritten away from its detected script.
func (s *Server) Transliterate(w http.ResponseWriter, r *http.Request) {
	var text, script string
	if err := bindQuery(r, "text", true, &text); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if err := bindQuery(r, "script", false, &script); err != nil {
		s.handleDomainError(w, err)
		return
	}

	detected := translit.DetectScript(text)
	target := translit.Cyrillic
	if detected == translit.DetectedCyrillic {
		target = translit.Latin
	}
	if script != "" {
		parsed, err := translit.ParseScript(script)
		if err != nil {
			s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
			return
		}
		target = parsed
	}

	writeJSON(w, http.StatusOK, TranslitResponse{
		Input:    text,
		Script:   target,
		Output:   translit.NewProcessor(target).Process(text),
		Detected: detected,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindRequest reads the search and pagination parameters of r.
func (s *Server) bindRequest(r *http.Request) (request.Request, error) {
	var (
		raw            string
		page, pageSize int
	)
	if err := bindQuery(r, s.opts.SearchParam, false, &raw); err != nil {
		return request.Request{}, err
	}
	if err := bindQuery(r, "page", false, &page); err != nil {
		return request.Request{}, err
	}
	if err := bindQuery(r, "page_size", false, &pageSize); err != nil {
		return request.Request{}, err
	}
	return request.New(raw, page, pageSize, s.opts.Limits)
}

func bindQuery(r *http.Request, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("%w: parameter %s: %w", domain.ErrInvalidRequest, name, err)
	}
	return nil
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrViewNotFound,
		domain.ErrInvalidRequest,
		domain.ErrUnsupportedLookup,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidRequestHandler reports which parameter was rejected.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
	return true
}

// lookupErrorHandler names the lookup the storage backend rejected.
func lookupErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrUnsupportedLookup) {
		return false
	}
	var le *domain.LookupError
	if errors.As(err, &le) {
		msg = le.Error()
	}
	writeError(w, http.StatusNotImplemented, ErrorCodeUnsupportedLookup, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
