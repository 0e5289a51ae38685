package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"autosales/internal/core"
	"autosales/internal/log"
	"autosales/internal/render"
)

// handleIndex renders the full dashboard with the output container
// pre-rendered for the requested (or default) selection.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("page not found").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()

	defaultYear, ok := s.dashboard.DefaultYear()
	if !ok {
		defaultYear = core.NoYear
	}
	sel := ParseIndexSelection(r.URL.Query(), defaultYear)
	result, _ := s.dashboard.Charts(ctx, sel)

	page := pageView{
		Title:       pageTitle,
		Reports:     reportOptions(sel.Report),
		YearControl: newYearControlView(s.dashboard.Years(), s.dashboard.YearControl(sel.Report), sel.Year),
		Output:      newChartsView(render.Build(result)),
	}

	body, err := renderTemplate(s.templates, "dashboard_page", page)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Dashboard template execution failed",
			log.FieldError, err,
			log.FieldComponent, log.ComponentTemplate,
			log.FieldOperation, log.OpRender,
			"error_type", log.ErrorTypeInternal)
		InternalServerError("Error rendering dashboard").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// handleCharts renders the output container contents for a control change.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()

	sel := ParseSelection(r.URL.Query())
	result, cached := s.dashboard.Charts(ctx, sel)

	body, err := renderTemplate(s.templates, "charts", newChartsView(render.Build(result)))
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Charts template execution failed",
			log.FieldError, err,
			log.FieldComponent, log.ComponentTemplate,
			log.FieldReport, string(sel.Report),
			log.FieldYear, sel.Year)
		InternalServerError("Error rendering charts").Write(w)
		return
	}

	NewHTMXResponse().
		Header("Cache-Control", "no-store").
		TriggerChartsRendered(sel, len(result.Charts), cached).
		BodyHTML(body).
		Write(w)
}

// handleYearControl renders the year dropdown for the selected report.
func (s *Server) handleYearControl(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()

	sel := ParseSelection(r.URL.Query())
	state := s.dashboard.YearControl(sel.Report)

	body, err := renderTemplate(s.templates, "year_control", newYearControlView(s.dashboard.Years(), state, sel.Year))
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Year control template execution failed",
			log.FieldError, err,
			log.FieldComponent, log.ComponentTemplate)
		InternalServerError("Error rendering year selector").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerYearControl(state.Enabled).
		BodyHTML(body).
		Write(w)
}

// handleAPICharts returns the render model for a selection as JSON.
func (s *Server) handleAPICharts(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	result, cached := s.dashboard.Charts(r.Context(), ParseSelection(r.URL.Query()))

	cacheStatus := "MISS"
	if cached {
		cacheStatus = "HIT"
	}
	NewHTMXResponse().
		Header("X-Cache", cacheStatus).
		BodyJSON(result).
		Write(w)
}

type yearsResponse struct {
	Years   []int `json:"years"`
	Default int   `json:"default,omitempty"`
}

func (s *Server) handleAPIYears(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	resp := yearsResponse{Years: s.dashboard.Years()}
	if resp.Years == nil {
		resp.Years = []int{}
	}
	if y, ok := s.dashboard.DefaultYear(); ok {
		resp.Default = y
	}
	NewHTMXResponse().BodyJSON(resp).Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports whether the dataset and templates are usable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	stats := s.dashboard.Stats()
	if s.dashboard.Ready() {
		checks["dataset"] = map[string]interface{}{
			"status":  "ok",
			"records": stats.Records,
			"years":   stats.Years,
		}
	} else {
		checks["dataset"] = "failed: no records loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	checks["cache"] = map[string]interface{}{
		"entries": stats.Cache.Entries,
		"status":  "ok",
	}
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()
	stats := s.dashboard.Stats()
	uptime := time.Since(s.startedAt)

	w.WriteHeader(http.StatusOK)

	// Prometheus text exposition format
	counter := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, v)
	}
	gauge := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s gauge\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, v)
	}

	counter("http_requests_total", "Total number of HTTP requests", traceMetrics.TotalRequests)
	counter("http_server_errors_total", "Total number of 5xx responses", traceMetrics.ServerErrors)
	gauge("http_request_duration_avg_microseconds", "Average request duration", traceMetrics.AverageResponseTime)

	gauge("dataset_records", "Rows in the loaded dataset", int64(stats.Records))
	gauge("dataset_years", "Distinct years in the loaded dataset", int64(stats.Years))
	counter("chart_computations_total", "Selections computed by the aggregation engine", stats.Computations)

	counter("cache_hits_total", "Total chart cache hits", stats.Cache.Hits)
	counter("cache_misses_total", "Total chart cache misses", stats.Cache.Misses)
	gauge("cache_entries", "Current chart cache entries", int64(stats.Cache.Entries))

	counter("view_events_published_total", "View events published to AMQP", stats.EventsSent)
	counter("view_events_failed_total", "View events that failed to publish", stats.EventFailures)
	counter("view_events_dropped_total", "View events dropped because the publish queue was full", stats.EventsDropped)

	counter("rate_limit_hits_total", "Total rate limit hits", rateLimitMetrics.TotalHits)
	gauge("active_rate_limit_clients", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	counter("suspicious_requests_total", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	counter("invalid_ip_attempts_total", "Forwarding headers carrying invalid IPs", securityMetrics.InvalidIPAttempts)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", uptime.Seconds())
}
