package main

import (
	"encoding/json"
	stdlog "log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/dhruvtrip/vizvest-app/src/config"
	"github.com/dhruvtrip/vizvest-app/src/handlers"
	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/processors"
	"github.com/dhruvtrip/vizvest-app/src/services"
	"github.com/dhruvtrip/vizvest-app/src/utils"
	"golang.org/x/time/rate"
)

// ipRateLimiter keeps one token bucket per client IP.
// TODO: evict limiters for IPs that have been idle longer than the session TTL.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.limiterFor(ip).Allow() {
			logger.L.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && origin == config.Cfg.CORSAllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With, X-Session-ID, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag, X-Session-ID")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("VizVest backend server starting...")

	sessionCache := cache.New(config.Cfg.SessionTTL, config.Cfg.SessionCleanupInterval)

	rowValidator := processors.NewRowValidator()
	currencyNormalizer := processors.NewCurrencyNormalizer(config.Cfg.DefaultBaseCurrency)
	positionProcessor := processors.NewPositionProcessor()
	dividendProcessor := processors.NewDividendProcessor()
	activityProcessor := processors.NewActivityProcessor()
	partialDataDetector := processors.NewPartialDataDetector()
	cashFlowProcessor := processors.NewCashFlowProcessor()

	uploadService := services.NewUploadService(
		rowValidator,
		currencyNormalizer,
		positionProcessor,
		dividendProcessor,
		activityProcessor,
		partialDataDetector,
		cashFlowProcessor,
		sessionCache,
	)

	uploadHandler := handlers.NewUploadHandler(uploadService)
	portfolioHandler := handlers.NewPortfolioHandler(uploadService)
	dividendHandler := handlers.NewDividendHandler(uploadService)
	activityHandler := handlers.NewActivityHandler(uploadService)
	analysisHandler := handlers.NewAnalysisHandler(uploadService)
	cashFlowHandler := handlers.NewCashFlowHandler(uploadService)
	txHandler := handlers.NewTransactionHandler(uploadService)

	apiLimiter := newIPRateLimiter(config.Cfg.RateLimitRPS, config.Cfg.RateLimitBurst)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "VizVest backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.middleware)
		r.Use(handlers.SessionMiddleware)

		r.Post("/upload", uploadHandler.HandleUpload)
		r.Get("/analysis", uploadHandler.HandleGetLatestResult)
		r.Get("/analysis/partial-data", analysisHandler.HandleGetPartialData)
		r.Get("/portfolio/positions", portfolioHandler.HandleGetPositions)
		r.Get("/dividends/summary", dividendHandler.HandleGetDividendSummary)
		r.Get("/dividends/transactions", dividendHandler.HandleGetDividendTransactions)
		r.Get("/activity/stats", activityHandler.HandleGetTradingStats)
		r.Get("/activity/heatmap", activityHandler.HandleGetActivityHeatmap)
		r.Get("/cashflow/summary", cashFlowHandler.HandleGetCashFlowSummary)
		r.Get("/transactions", txHandler.HandleGetTransactions)
		r.Delete("/transactions", txHandler.HandleClearSession)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.SendJSONError(w, "not found", http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
