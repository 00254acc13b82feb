package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/makelab/uploadgate"
	gatehttp "github.com/makelab/uploadgate/http"
	"github.com/makelab/uploadgate/identity"
	"github.com/makelab/uploadgate/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the upload gateway HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 7000, "HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func buildVerifier() (identity.Verifier, error) {
	switch cfg.Auth.Mode {
	case "static":
		if len(cfg.Auth.StaticTokens) == 0 {
			return nil, errors.New("static auth mode requires auth.static_tokens")
		}
		slog.Warn("using static token verifier, do not use in production")
		return identity.NewStaticVerifier(cfg.Auth.StaticTokens), nil
	case "firebase":
		if cfg.Auth.ServiceAccountKey == "" {
			return nil, errors.New("firebase auth mode requires auth.service_account_key (env: FIREBASE_SERVICE_ACCOUNT_KEY)")
		}
		sa, err := identity.ParseServiceAccount([]byte(cfg.Auth.ServiceAccountKey))
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		return identity.NewFirebaseVerifier(sa), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Supabase.URL == "" || cfg.Supabase.ServiceRoleKey == "" {
		return errors.New("supabase.url and supabase.service_role_key are required (env: SUPABASE_URL, SUPABASE_SERVICE_ROLE_KEY)")
	}

	verifier, err := buildVerifier()
	if err != nil {
		return err
	}

	store := supabase.New(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey, cfg.Supabase.Bucket)
	slog.Info("object store configured", "url", cfg.Supabase.URL, "bucket", cfg.Supabase.Bucket)

	service, err := uploadgate.NewGatewayService(store, uploadgate.ServiceConfig{
		UploadURLValidity:   time.Duration(cfg.Upload.UploadURLValidity) * time.Second,
		DownloadURLValidity: time.Duration(cfg.Upload.DownloadURLValidity) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	handlerConfig := gatehttp.HandlerConfig{
		Verifier:         verifier,
		CORS:             cfg.CORS,
		MaxModelFileSize: cfg.Upload.MaxModelSize,
		MaxVideoFileSize: cfg.Upload.MaxVideoSize,
		Version:          version,
	}

	handler := gatehttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
	}()

	slog.Info("starting server", "addr", addr, "auth_mode", cfg.Auth.Mode)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
