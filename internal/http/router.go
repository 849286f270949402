package http

import (
	"context"
	"net/http"
	"strings"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Schedules  *ScheduleHandler
	Forecasts  *ForecastHandler
	Profiles   *ProfileHandler
	Health     Pinger
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		if cfg.Health != nil {
			if err := cfg.Health.Ping(r.Context()); err != nil {
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if cfg.Schedules != nil {
		mux.HandleFunc("/schedules/generate", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Schedules.Generate(w, r)
		})
	}

	if cfg.Forecasts != nil {
		mux.HandleFunc("/forecasts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Forecasts.Create(w, r)
		})
		mux.HandleFunc("/forecasts/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/forecasts/")
			if rest == "batch" {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Forecasts.CreateBatch(w, r)
				return
			}

			userID, ok := strings.CutSuffix(rest, "/latest")
			if !ok || userID == "" || strings.Contains(userID, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			r = r.WithContext(ContextWithUserID(r.Context(), userID))
			cfg.Forecasts.Latest(w, r, userID)
		})
	}

	if cfg.Profiles != nil {
		mux.HandleFunc("/profiles", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Profiles.List(w, r)
		})
		mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/profiles/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			if userID, ok := strings.CutSuffix(rest, "/preset"); ok {
				if userID == "" || strings.Contains(userID, "/") {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				r = r.WithContext(ContextWithUserID(r.Context(), userID))
				cfg.Profiles.ApplyPreset(w, r, userID)
				return
			}

			if strings.Contains(rest, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithUserID(r.Context(), rest))
			switch r.Method {
			case http.MethodGet:
				cfg.Profiles.Get(w, r, rest)
			case http.MethodPut:
				cfg.Profiles.Put(w, r, rest)
			case http.MethodDelete:
				cfg.Profiles.Delete(w, r, rest)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
