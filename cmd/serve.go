package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tileit-labs/quote-cli/internal/pricing"
	"github.com/tileit-labs/quote-cli/internal/store"
	"github.com/tileit-labs/quote-cli/internal/survey"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for quote generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Post("/api/quotes/generate", handleGenerate(st))
		r.Get("/api/quotes", handleListQuotes(st))
		r.Delete("/api/quotes/{id}", handleDeleteQuote(st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// generateRequest is the POST /api/quotes/generate body: typed survey
// records plus an optional profile override.
type generateRequest struct {
	Records []survey.RawRoofRecord `json:"records"`
	Profile *pricing.Profile       `json:"profile,omitempty"`
	Save    bool                   `json:"save,omitempty"`
}

func handleGenerate(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Records) == 0 {
			writeError(w, http.StatusBadRequest, "records are required")
			return
		}

		profile := req.Profile
		if profile == nil {
			p := cfg.Profile
			profile = &p
		}

		props := survey.Aggregate(req.Records)
		quotes, rowErrs, err := pricing.NewBatch(profile, cfg.Batch.Workers).Process(r.Context(), props)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if req.Save {
			if _, err := st.SaveQuotes(r.Context(), quotes); err != nil {
				zap.L().Error("save quotes failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "save quotes failed")
				return
			}
		}

		writeJSON(w, http.StatusOK, struct {
			Quotes []pricing.QuoteResult `json:"quotes"`
			Errors []pricing.RowError    `json:"errors,omitempty"`
		}{Quotes: quotes, Errors: rowErrs})
	}
}

func handleListQuotes(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.QuoteFilter{
			Address: r.URL.Query().Get("address"),
		}
		if limit := r.URL.Query().Get("limit"); limit != "" {
			n, err := strconv.Atoi(limit)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			filter.Limit = n
		}

		quotes, err := st.ListQuotes(r.Context(), filter)
		if err != nil {
			zap.L().Error("list quotes failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list quotes failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
	}
}

func handleDeleteQuote(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := st.DeleteQuote(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
