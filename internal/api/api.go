// Package api exposes the persisted dataset over a read-only HTTP surface
// for the dashboard. Handlers parse filter parameters, load the stored
// tables, and serialize JSON; all computation happens at build time.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/config"
	"github.com/sells-group/jobcost-cli/internal/intel"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/pipeline"
	"github.com/sells-group/jobcost-cli/internal/store"
)

// Handler serves the persisted dataset.
type Handler struct {
	Store      store.Store
	SmartQuote config.SmartQuoteConfig
}

// NewRouter wires the read-only API routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/fact", h.getFact)
		r.Get("/summaries/job-month", h.getJobMonth)
		r.Get("/summaries/job-total", h.getJobTotal)
		r.Get("/summaries/job-task", h.getJobTask)
		r.Get("/drivers", h.getDrivers)
		r.Get("/catalog", h.getCatalog)
		r.Get("/templates", h.getTemplates)
		r.Get("/comps", h.getComps)
		r.Get("/qa", h.getQA)
		r.Get("/builds", h.getBuilds)
		r.Post("/quote/recommend", h.postQuoteRecommend)
	})

	return r
}

// parseFilter reads the fact-filter query parameters. Unallocated rows are
// included unless explicitly excluded.
func parseFilter(r *http.Request) model.FactFilter {
	q := r.URL.Query()
	f := model.FactFilter{
		StartMonth:         q.Get("start_month"),
		EndMonth:           q.Get("end_month"),
		Dept:               q.Get("dept"),
		Product:            q.Get("product"),
		IncludeUnallocated: true,
	}
	if v, err := strconv.ParseBool(q.Get("include_unallocated")); err == nil {
		f.IncludeUnallocated = v
	}
	if v, err := strconv.ParseBool(q.Get("mismatch_only")); err == nil {
		f.MismatchOnly = v
	}
	if v, err := strconv.ParseBool(q.Get("billable_only")); err == nil {
		f.BillableOnly = v
	}
	if v, err := strconv.ParseBool(q.Get("onshore_only")); err == nil {
		f.OnshoreOnly = v
	}
	return f
}

func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) (model.Dataset, bool) {
	ds, err := h.Store.LoadDataset(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return model.Dataset{}, false
	}
	return pipeline.ApplyFilters(*ds, parseFilter(r)), true
}

func (h *Handler) getFact(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.Fact)
	}
}

func (h *Handler) getJobMonth(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.JobMonth)
	}
}

func (h *Handler) getJobTotal(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.JobTotal)
	}
}

func (h *Handler) getJobTask(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.JobTask)
	}
}

func (h *Handler) getDrivers(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.Drivers)
	}
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.TaskCatalog)
	}
}

func (h *Handler) getTemplates(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.Templates)
	}
}

func (h *Handler) getComps(w http.ResponseWriter, r *http.Request) {
	if ds, ok := h.filtered(w, r); ok {
		writeJSON(w, http.StatusOK, ds.Comps)
	}
}

func (h *Handler) getQA(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Store.LoadDataset(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.QA)
}

func (h *Handler) getBuilds(w http.ResponseWriter, r *http.Request) {
	builds, err := h.Store.ListBuilds(r.Context(), 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if builds == nil {
		builds = []model.BuildInfo{}
	}
	writeJSON(w, http.StatusOK, builds)
}

func (h *Handler) postQuoteRecommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dept         string  `json:"dept"`
		Product      string  `json:"product"`
		Policy       string  `json:"policy"`
		TargetMargin float64 `json:"target_margin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Dept == "" || req.Product == "" {
		http.Error(w, `{"error":"dept and product are required"}`, http.StatusBadRequest)
		return
	}

	ds, err := h.Store.LoadDataset(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	cfg := h.SmartQuote
	if req.TargetMargin > 0 {
		cfg.TargetMargin = req.TargetMargin
	}
	policy := model.QuotePolicy(req.Policy)
	if policy == "" {
		policy = model.PolicyBalanced
	}

	rec, err := intel.Recommend(ds.TaskCatalog, req.Dept, req.Product, policy, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
