package main

import (
	"net/http"
	"os"
	"time"

	"medication-tracker/internal/adapters/auth/jwtauth"
	"medication-tracker/internal/adapters/auth/remote"
	"medication-tracker/internal/platform/logger"
	"medication-tracker/internal/ports/auth"
	"medication-tracker/internal/router"

	"github.com/joho/godotenv"
)

// @title Medication Tracker API
// @version 0.1
// @description Tracker personal de adherencia: medicamentos, dosis, refills y reminders.
func main() {
	// .env opcional para dev; en deploy las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifierFromEnv(log),
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// verifierFromEnv elige el verifier de auth:
// - AUTH_JWT_SECRET => JWT HS256 local
// - AUTH_VERIFY_URL => introspección remota
// - ninguno => nil (modo dev con X-Debug-User-ID)
func verifierFromEnv(log logger.Logger) auth.AuthVerifier {
	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" {
		return jwtauth.NewVerifier(secret)
	}

	if url := os.Getenv("AUTH_VERIFY_URL"); url != "" {
		v, err := remote.NewVerifier(remote.Config{BaseURL: url})
		if err != nil {
			log.Warn("remote verifier misconfigured, running in dev mode", map[string]any{"error": err.Error()})
			return nil
		}
		return v
	}

	return nil
}
