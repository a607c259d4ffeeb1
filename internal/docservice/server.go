package docservice

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrsinham/accidentwizard/internal/report"
)

const maxRequestBody = 1 << 20

// Server exposes a Memory store with the case backend's HTTP contract.
type Server struct {
	mem *Memory
	log *slog.Logger
}

// NewServer returns the HTTP handler of the mock backend.
func NewServer(mem *Memory, log *slog.Logger) http.Handler {
	if log == nil {
		log = mem.log
	}
	s := &Server{mem: mem, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health/", s.health)
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.list)
			r.Post("/", s.action)
			r.Get("/{id}", s.get)
		})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// list answers GET /api/documents/. action=detail&id=N returns one document.
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("action") == actionDetail {
		s.writeDocument(w, q.Get("id"))
		return
	}

	docs := s.mem.List()
	items := make([]wireDocument, 0, len(docs))
	for _, d := range docs {
		items = append(items, fromDocument(d))
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:      items,
		TotalCount: len(items),
		TotalPages: 1,
		Page:       1,
		PageSize:   max(len(items), 10),
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.writeDocument(w, chi.URLParam(r, "id"))
}

func (s *Server) writeDocument(w http.ResponseWriter, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Nieprawidłowy identyfikator zgłoszenia.")
		return
	}
	doc, err := s.mem.Get(id)
	if err != nil {
		writeError(w, httpStatus(err), detailOf(err))
		return
	}
	writeJSON(w, http.StatusOK, fromDocument(doc))
}

// action answers POST /api/documents/ for the create and generate-pdf actions.
func (s *Server) action(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Zgłoszenie jest zbyt duże.")
		return
	}
	var req actionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document data")
		return
	}

	switch req.Action {
	case actionCreate:
		s.create(w, r, body)
	case actionGeneratePDF:
		s.generatePDF(w, r, req.ID)
	default:
		writeError(w, http.StatusBadRequest, "Nieznana akcja: "+strconv.Quote(req.Action))
	}
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, body []byte) {
	var in wireDocument
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document data")
		return
	}
	doc, err := s.mem.CreateDocument(r.Context(), report.Payload{Draft: in.Draft, Attachments: in.Attachments})
	if err != nil {
		writeError(w, httpStatus(err), detailOf(err))
		return
	}
	writeJSON(w, http.StatusCreated, fromDocument(doc))
}

func (s *Server) generatePDF(w http.ResponseWriter, r *http.Request, id int64) {
	data, err := s.mem.Render(r.Context(), id, report.FormatPDF)
	if err != nil {
		writeError(w, httpStatus(err), detailOf(err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+FileName(id, report.FormatPDF)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).Round(time.Millisecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
