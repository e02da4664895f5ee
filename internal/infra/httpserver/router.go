package httpserver

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	domai "github.com/bryanwahyu/mould-triage/internal/domain/ai"
	domain "github.com/bryanwahyu/mould-triage/internal/domain/triage"
	"github.com/bryanwahyu/mould-triage/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Analyzer is the orchestrator as seen by the transport.
type Analyzer interface {
	AnalyzeUpload(ctx context.Context, filename string, r io.Reader, size int64) (*domain.Outcome, error)
}

// Options configures the router.
type Options struct {
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
	RateCapacity       int
	RateRefill         int
	Readiness          map[string]middleware.HealthChecker
}

type Router struct {
	svc      Analyzer
	maxBytes int64
}

// NewRouter builds the HTTP handler. Background work started for it, such as
// rate limiter cleanup, stops when ctx is done.
func NewRouter(ctx context.Context, svc Analyzer, opts Options) http.Handler {
	r := &Router{svc: svc, maxBytes: opts.MaxUploadBytes}
	if r.maxBytes <= 0 {
		r.maxBytes = 16 << 20
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/ready", middleware.ReadinessHandler(opts.Readiness))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Group(func(rt chi.Router) {
		if opts.RateCapacity > 0 {
			rt.Use(middleware.RateLimitMiddleware(ctx, opts.RateCapacity, opts.RateRefill))
		}
		rt.Get("/", r.handleForm)
		rt.Post("/", r.handleUpload)

		rt.Route("/v1", func(api chi.Router) {
			origins := opts.CORSAllowedOrigins
			if len(origins) == 0 {
				origins = []string{"*"}
			}
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: origins,
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         300,
			}))
			api.Post("/analyze", r.wrap(r.handleAPIAnalyze))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps pipeline errors to status codes for the JSON API.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			http.Error(w, err.Error(), statusFor(err))
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat), errors.Is(err, domain.ErrImageRead):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrModelCallFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrQueuePublishFailed), errors.Is(err, domain.ErrUploadStaging):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type resultPage struct {
	Result string
	Label  domain.Label
	Queue  string
	Error  string
}

// GET /
func (r *Router) handleForm(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "index.html", nil); err != nil {
		log.Printf("render index: %v", err)
	}
}

// POST /
// A missing or disallowed file redirects back to the form.
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) {
	file, header, err := r.formFile(w, req)
	if err != nil {
		log.Printf("req_id=%s upload rejected: %v", chimw.GetReqID(req.Context()), err)
		http.Redirect(w, req, "/", http.StatusSeeOther)
		return
	}
	defer file.Close()

	out, err := r.svc.AnalyzeUpload(req.Context(), header.Filename, file, header.Size)

	page := resultPage{}
	status := http.StatusOK
	if out != nil {
		page.Result = out.Result
		page.Label = out.Label
		page.Queue = out.Queue
	}
	if err != nil {
		page.Error = middleware.SanitizeString(err.Error())
		status = statusFor(err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, "result.html", page); err != nil {
		log.Printf("render result: %v", err)
	}
}

// POST /v1/analyze
// Body: multipart form with field "file". Responds with the outcome as JSON.
func (r *Router) handleAPIAnalyze(w http.ResponseWriter, req *http.Request) error {
	file, header, err := r.formFile(w, req)
	if err != nil {
		return err
	}
	defer file.Close()

	out, err := r.svc.AnalyzeUpload(req.Context(), header.Filename, file, header.Size)
	if err != nil && out != nil && out.State != domain.StateReceived {
		// the request got as far as the model; report the outcome with the error
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusFor(err))
		return json.NewEncoder(w).Encode(struct {
			*domain.Outcome
			Error string `json:"error"`
		}{out, err.Error()})
	}
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(out)
}

func (r *Router) formFile(w http.ResponseWriter, req *http.Request) (multipart.File, *multipart.FileHeader, error) {
	// leave room for the multipart envelope around the file
	req.Body = http.MaxBytesReader(w, req.Body, r.maxBytes+1<<20)
	if err := req.ParseMultipartForm(r.maxBytes); err != nil {
		return nil, nil, errors.Join(domain.ErrUnsupportedFormat, err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return nil, nil, errors.Join(domain.ErrUnsupportedFormat, err)
	}
	if err := middleware.ValidateUpload(header, r.maxBytes); err != nil {
		file.Close()
		return nil, nil, errors.Join(domain.ErrUnsupportedFormat, err)
	}
	return file, header, nil
}
