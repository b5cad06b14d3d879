// CLAUDE:SUMMARY Entry point for the cvpipe HTTP service — upload handling, parsing, delivery, dispatcher loop.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/cvpipe/cvparse"
	"github.com/hazyhaar/cvpipe/dbopen"
	"github.com/hazyhaar/cvpipe/delivery"
	"github.com/hazyhaar/cvpipe/docpipe"
	"github.com/hazyhaar/cvpipe/export"
	"github.com/hazyhaar/cvpipe/idgen"
	"github.com/hazyhaar/cvpipe/internal/store"
)

const maxUploadBytes = 20 << 20

func main() {
	port := env("PORT", "8086")
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Config file is optional; env vars override it.
	cfg := &AppConfig{}
	if path := os.Getenv("CONFIG"); path != "" {
		loaded, err := LoadConfigFile(path)
		if err != nil {
			slog.Error("load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.defaults()
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Delivery.Webhook.URL = v
	}
	if v := os.Getenv("MAIL_API_URL"); v != "" {
		cfg.Mailer.URL = v
	}
	if v := os.Getenv("MAIL_API_TOKEN"); v != "" {
		cfg.Mailer.Token = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Delivery.Environment = v
	}
	cfg.Delivery.Logger = logger

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll(), dbopen.WithSchema(store.Schema))
	if err != nil {
		slog.Error("open db", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("create upload dir", "path", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	st := store.NewStore(db)
	extractor := docpipe.New(docpipe.Config{Logger: logger})
	pipeline := delivery.NewPipeline(st, cfg.Delivery)
	exporter := export.NewService(st, logger)
	newAppID := idgen.Prefixed("app_", idgen.Default)

	mailer := delivery.NewHTTPMailer(cfg.Mailer)
	dispatcher := delivery.NewDispatcher(st, mailer, cfg.Delivery.Dispatch, cfg.Delivery.Mail, logger)
	go dispatcher.Run(ctx)

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/applications", func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
			return
		}

		file, header, err := r.FormFile("cv")
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("cv file is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		}

		text, err := extractor.Extract(r.Context(), data, mimeType)
		if err != nil {
			var exErr *docpipe.ExtractionError
			if errors.As(err, &exErr) {
				writeError(w, http.StatusUnprocessableEntity, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		// Empty text means unsupported type: the profile parses empty and
		// the application is still accepted.

		profile := cvparse.Parse(text)
		profileJSON, _ := json.Marshal(profile)

		appID := newAppID()
		fileName := filepath.Base(header.Filename)
		storedName := appID + "_" + fileName
		if err := os.WriteFile(filepath.Join(cfg.UploadDir, storedName), data, 0o644); err != nil {
			slog.Error("store cv file", "error", err)
			// Extraction already succeeded; the application proceeds
			// without a retrievable file.
			storedName = ""
		}
		cvLink := ""
		if storedName != "" {
			cvLink = "/files/" + storedName
		}

		name := r.FormValue("name")
		if name == "" {
			name = profile.PersonalInfo.Name
		}
		email := r.FormValue("email")
		if email == "" {
			email = profile.PersonalInfo.Email
		}
		phone := r.FormValue("phone")
		if phone == "" {
			phone = profile.PersonalInfo.Phone
		}
		timezone := r.FormValue("timezone")

		app := &store.Application{
			ID:          appID,
			Name:        name,
			Email:       email,
			Phone:       phone,
			Timezone:    timezone,
			CVFileName:  fileName,
			CVLink:      cvLink,
			ProfileJSON: string(profileJSON),
		}
		if err := st.InsertApplication(r.Context(), app); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("store application: %w", err))
			return
		}

		result := pipeline.Deliver(r.Context(), &delivery.Request{
			Profile:   profile,
			Recipient: email,
			Timezone:  timezone,
		})

		writeJSON(w, http.StatusAccepted, map[string]any{
			"id":       appID,
			"cv_link":  cvLink,
			"profile":  profile,
			"delivery": result,
		})
	})

	r.Get("/api/applications", func(w http.ResponseWriter, r *http.Request) {
		apps, err := st.ListApplications(r.Context(), queryInt(r, "limit", 0))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if apps == nil {
			apps = []*store.Application{}
		}
		writeJSON(w, http.StatusOK, apps)
	})

	r.Get("/api/applications/export", func(w http.ResponseWriter, r *http.Request) {
		data, err := exporter.ApplicationsXLSX(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		name := "applications-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.Write(data)
	})

	r.Get("/api/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
		app, err := st.GetApplication(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if app == nil {
			writeError(w, http.StatusNotFound, errors.New("application not found"))
			return
		}
		writeJSON(w, http.StatusOK, app)
	})

	r.Get("/api/dead-letters", func(w http.ResponseWriter, r *http.Request) {
		dls, err := st.ListDeadLetters(r.Context(), queryInt(r, "limit", 0))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if dls == nil {
			dls = []*store.DeadLetter{}
		}
		writeJSON(w, http.StatusOK, dls)
	})

	r.Get("/files/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(chi.URLParam(r, "name"))
		http.ServeFile(w, r, filepath.Join(cfg.UploadDir, name))
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("cvpiped listening", "port", port, "db", cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server", "error", err)
		os.Exit(1)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
