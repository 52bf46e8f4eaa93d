package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/forecast"
	"github.com/molisha70-dotcom/Economic/internal/report"
	"github.com/molisha70-dotcom/Economic/internal/session"
)

const maxBodyBytes = 1 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the forecast HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, cfg, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env.Pipeline, env.Sessions, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// forecaster runs one forecast request.
type forecaster interface {
	Run(ctx context.Context, req forecast.Request) (*forecast.Result, error)
}

// forecastResponse is the POST /forecast body.
type forecastResponse struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
	*forecast.Result
}

// overridesRequest is the PUT /sessions/{id}/overrides body. Assume takes
// the "key:value key:value" form.
type overridesRequest struct {
	Overrides session.Overrides `json:"overrides"`
	Assume    string            `json:"assume"`
	Reset     bool              `json:"reset"`
}

func newRouter(fc forecaster, sessions *session.Store, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/forecast", func(w http.ResponseWriter, r *http.Request) {
		var req forecast.Request
		if err := decodeBody(w, r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.SessionID == "" {
			req.SessionID = session.NewID()
		}

		res, err := fc.Run(r.Context(), req)
		if errors.Is(err, forecast.ErrEmptyText) {
			respondError(w, http.StatusBadRequest, "text is required")
			return
		}
		if err != nil {
			zap.L().Error("forecast failed", zap.String("session_id", req.SessionID), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "forecast failed")
			return
		}
		respondJSON(w, http.StatusOK, forecastResponse{
			SessionID: req.SessionID,
			Summary:   report.Summary(res),
			Result:    res,
		})
	})

	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/overrides", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			respondJSON(w, http.StatusOK, map[string]any{"session_id": id, "overrides": sessions.Overrides(id)})
		})

		r.Put("/overrides", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			var req overridesRequest
			if err := decodeBody(w, r, &req); err != nil {
				respondError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if req.Reset {
				sessions.Reset(id)
			}
			merged := sessions.Merge(id, session.ParseAssignments(req.Assume))
			if len(req.Overrides) > 0 {
				merged = sessions.Merge(id, req.Overrides)
			}
			respondJSON(w, http.StatusOK, map[string]any{"session_id": id, "overrides": merged})
		})

		r.Delete("/overrides", func(w http.ResponseWriter, r *http.Request) {
			sessions.Reset(chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/explain", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			explain, ok := sessions.Explain(id)
			if !ok {
				respondError(w, http.StatusNotFound, "no explanation yet; run a forecast first")
				return
			}
			respondJSON(w, http.StatusOK, map[string]string{"session_id": id, "explain": explain})
		})
	})

	return r
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
