package main

import (
	"context"
	"encoding/json"
	"flag"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/algotax/backend/src/config"
	"github.com/username/algotax/backend/src/database"
	"github.com/username/algotax/backend/src/handlers"
	"github.com/username/algotax/backend/src/indexer"
	"github.com/username/algotax/backend/src/logger"
	"github.com/username/algotax/backend/src/resolver"
	"github.com/username/algotax/backend/src/services"
	"github.com/username/algotax/backend/src/writers"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	runOnce := flag.Bool("once", false, "run one analysis for the configured account and exit")
	flag.Parse()

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Algotax backend starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	indexerClient := indexer.NewClient(
		config.Cfg.IndexerBaseURL,
		config.Cfg.IndexerTimeout,
		config.Cfg.IndexerRequestsPerSec,
	)

	entityResolver := resolver.NewResolver(indexerClient, resolver.NewSQLiteStore())
	if err := entityResolver.Preload(); err != nil {
		logger.L.Error("Failed to preload resolver caches", "error", err)
		os.Exit(1)
	}

	logger.L.Info("Initializing result cache...")
	resultCache := cache.New(config.Cfg.ResultCacheExpiration, config.Cfg.ResultCacheCleanup)

	newSink := func() (writers.EventSink, error) {
		return writers.NewCSVEventWriter(config.Cfg.ResultsPath, config.Cfg.ReportPath)
	}

	analysisService := services.NewAnalysisService(
		indexerClient,
		entityResolver,
		newSink,
		resultCache,
		services.AnalysisOptions{
			PaymentThresholdMicroAlgos: config.Cfg.PaymentThresholdMicroAlgos,
			SkipNotedPayments:          config.Cfg.SkipNotedPayments,
			PageSize:                   config.Cfg.PageSize,
			AfterDate:                  config.Cfg.AfterDate,
			BeforeDate:                 config.Cfg.BeforeDate,
		},
	)

	if *runOnce {
		if config.Cfg.AccountAddress == "" {
			logger.L.Error("ACCOUNT_ADDRESS must be set for a one-shot run.")
			os.Exit(1)
		}
		result, err := analysisService.RunAnalysis(context.Background(), config.Cfg.AccountAddress)
		if err != nil {
			logger.L.Error("Analysis run failed", "error", err)
			os.Exit(1)
		}
		logger.L.Info("Analysis run complete",
			"runId", result.RunID,
			"transactions", result.TransactionCount,
			"taxableEvents", result.EventCount,
			"results", config.Cfg.ResultsPath,
			"report", config.Cfg.ReportPath)
		return
	}

	analysisHandler := handlers.NewAnalysisHandler(analysisService, config.Cfg.AccountAddress)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/analyze", analysisHandler.HandleAnalyze)
	apiRouter.HandleFunc("GET /api/report", analysisHandler.HandleGetReport)
	apiRouter.HandleFunc("GET /api/events", analysisHandler.HandleGetTaxableEvents)
	apiRouter.HandleFunc("GET /api/transactions", analysisHandler.HandleGetTransactions)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Algotax backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // analysis runs page through full account history
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
