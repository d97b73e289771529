// Package http serves the HTMX bill tracker UI.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contas/internal/cache"
	"contas/internal/catalog"
	"contas/internal/core"
	"contas/internal/services"
	appweb "contas/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	svc         *services.BillService
	catalog     *catalog.Catalog
	rateLimiter *rateLimiter

	summaryCache *cache.LRUCache[core.MonthSummary]
	billsCache   *cache.LRUCache[[]core.Bill]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, svc *services.BillService, cat *catalog.Catalog) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server:       http.Server{Addr: addr, Handler: mux},
		svc:          svc,
		catalog:      cat,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[core.MonthSummary](100, 5*time.Minute),
		billsCache:   cache.NewLRUCache[[]core.Bill](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.billsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.withMiddleware("/", s.handleIndex))
	mux.HandleFunc("POST /bills", s.withMiddleware("/bills", s.handleCreateBill))
	mux.HandleFunc("POST /bills/{id}/pay", s.withMiddleware("/bills/pay", s.handlePayBill))
	mux.HandleFunc("PUT /bills/{id}", s.withMiddleware("/bills/edit", s.handleUpdateBill))
	mux.HandleFunc("DELETE /bills/{id}", s.withMiddleware("/bills/delete", s.handleDeleteBill))
	mux.HandleFunc("GET /ui/month-summary", s.withMiddleware("/ui/month-summary", s.handleMonthSummary))
	mux.HandleFunc("GET /ui/bill-list", s.withMiddleware("/ui/bill-list", s.handleBillList))
	mux.HandleFunc("GET /ui/category-options", s.withMiddleware("/ui/category-options", s.handleCategoryOptions))

	return s
}

// withMiddleware adds security headers, rate limiting, request logging, and
// metrics. metricPath keeps per-ID routes from exploding label cardinality.
func (s *Server) withMiddleware(metricPath string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := clientAddr(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			requestsTotal.WithLabelValues(metricPath, "429").Inc()
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		requestsTotal.WithLabelValues(metricPath, strconv.Itoa(rw.statusCode)).Inc()
		requestDuration.WithLabelValues(metricPath).Observe(duration.Seconds())
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func cacheKey(v ViewState) string {
	return strconv.Itoa(v.Year) + "-" + strconv.Itoa(int(v.Month))
}

// invalidateMonthViews drops every cached month view. Mutations can touch
// months other than the one on screen (a recurring batch spans many), so
// clearing outright is the only safe invalidation.
func (s *Server) invalidateMonthViews() {
	s.summaryCache.Clear()
	s.billsCache.Clear()
}

func (s *Server) monthBills(ctx context.Context, v ViewState) ([]core.Bill, error) {
	key := cacheKey(v)
	if bills, found := s.billsCache.Get(key); found {
		summaryCacheHits.WithLabelValues("bills", "hit").Inc()
		out := make([]core.Bill, len(bills))
		copy(out, bills)
		return out, nil
	}
	summaryCacheHits.WithLabelValues("bills", "miss").Inc()

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	bills, err := s.svc.MonthBills(cctx, v.Year, v.Month)
	if err != nil {
		return nil, err
	}

	s.billsCache.Set(key, bills)
	return bills, nil
}

func (s *Server) monthSummary(ctx context.Context, v ViewState) (core.MonthSummary, error) {
	key := cacheKey(v)
	if sum, found := s.summaryCache.Get(key); found {
		summaryCacheHits.WithLabelValues("summary", "hit").Inc()
		return sum, nil
	}
	summaryCacheHits.WithLabelValues("summary", "miss").Inc()

	bills, err := s.monthBills(ctx, v)
	if err != nil {
		return core.MonthSummary{}, err
	}

	sum := core.Summarize(bills)
	s.summaryCache.Set(key, sum)
	return sum, nil
}

// Shutdown stops the server along with its cache and limiter goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
