package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/kitchenmania/pantry/internal/config"
	"github.com/kitchenmania/pantry/internal/parser"
	"github.com/kitchenmania/pantry/internal/pricing"
	"github.com/kitchenmania/pantry/internal/recipes"
	"github.com/kitchenmania/pantry/internal/store"
	"github.com/kitchenmania/pantry/internal/units"
	"go.uber.org/zap"
)

// Server handles HTTP requests for the pantry API
type Server struct {
	store     *store.Store
	parser    parser.Parser
	suggester *recipes.Suggester
	cfg       config.ServerConfig
	logger    *zap.Logger
	validate  *validator.Validate
	router    chi.Router
}

// New creates a new API server
func New(s *store.Store, p parser.Parser, sg *recipes.Suggester, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	srv := &Server{
		store:     s,
		parser:    p,
		suggester: sg,
		cfg:       cfg,
		logger:    logger,
		validate:  validator.New(),
	}
	srv.router = srv.routes()
	return srv
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(withCORS(s.cfg.AllowedOrigins))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.listItems)
			r.Post("/", s.addItem)
			r.Post("/reorder", s.reorderItems)
			r.Post("/bulk/preview", s.previewBulk)
			r.Post("/bulk", s.applyBulk)
			r.Get("/{id}", s.getItem)
			r.Patch("/{id}", s.updateItem)
			r.Delete("/{id}", s.deleteItem)
		})

		r.Post("/receipts", s.scanReceipt)

		r.Route("/units", func(r chi.Router) {
			r.Get("/", s.listUnits)
			r.Get("/convert", s.convertUnits)
			r.Get("/display", s.displayUnits)
		})

		r.Route("/prices", func(r chi.Router) {
			r.Get("/", s.listPrices)
			r.Post("/", s.addPrice)
			r.Get("/compare", s.comparePrices)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.listRecipes)
			r.Post("/", s.saveRecipe)
			r.Post("/suggest", s.suggestRecipes)
			r.Get("/{id}", s.getRecipe)
			r.Delete("/{id}", s.deleteRecipe)
			r.Post("/{id}/cook", s.cookRecipe)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// withCORS adds CORS headers for frontend development
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSpace(o)] = true
	}
	wildcard := len(allowed) == 0 || allowed["*"]

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Add("Vary", "Origin")
				if origin := r.Header.Get("Origin"); allowed[origin] {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into v and validates it
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, validationMessage(verrs))
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = strings.ToLower(fe.Field()) + " failed " + fe.Tag()
		if fe.Param() != "" {
			msgs[i] += "=" + fe.Param()
		}
	}
	return strings.Join(msgs, "; ")
}

// fail maps domain errors to HTTP statuses
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		apiErr   *parser.APICallError
		parseErr *parser.ParseError
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, units.ErrIncompatibleUnits):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, units.ErrNegativeAmount), errors.Is(err, units.ErrInvalidAmount),
		errors.Is(err, pricing.ErrZeroQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, parser.ErrReceiptUnsupported), errors.Is(err, recipes.ErrSuggestionsUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &apiErr), errors.As(err, &parseErr):
		s.logger.Warn("model request failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("request failed",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		// headers are still unwritten here
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"response could not be encoded"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
