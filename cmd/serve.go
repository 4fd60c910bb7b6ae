package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/platewise/nutrition-engine/internal/model"
)

var servePort int

type planValidator interface {
	ValidateAndAdjust(ctx context.Context, plan model.MealPlan, target model.TargetMacroProfile) (*model.ValidationResult, error)
}

type validateRequest struct {
	Plan   model.MealPlan           `json:"plan"`
	Target model.TargetMacroProfile `json:"target"`
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		zap.L().Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func newRouter(v planValidator) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/validate", func(w http.ResponseWriter, req *http.Request) {
		var body validateRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(body.Plan.Days) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan.days is required"})
			return
		}
		if body.Target.Calories <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target.calories must be positive"})
			return
		}

		result, err := v.ValidateAndAdjust(req.Context(), body.Plan, body.Target)
		if err != nil {
			zap.L().Error("plan validation failed", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "validation failed"})
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(eng),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
