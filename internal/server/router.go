package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	companyctrl "quotehub/internal/company/controller"
	quotationctrl "quotehub/internal/quotation/controller"
)

func NewRouter(
	companyCtrl *companyctrl.CompanyController,
	quotationCtrl *quotationctrl.QuotationController,
	uploadDir string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(300, time.Minute))
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/companies", func(r chi.Router) {
		r.Get("/", companyCtrl.HandleList)
		r.Get("/{companyID}", companyCtrl.HandleGet)
		r.Put("/{companyID}", companyCtrl.HandleUpdate)
		r.Get("/{companyID}/next-quote-number", companyCtrl.HandleNextQuoteNumber)
	})

	r.Route("/quotations", func(r chi.Router) {
		r.Get("/", quotationCtrl.HandleList)
		r.Post("/", quotationCtrl.HandleCreate)
		r.Get("/{quotationID}", quotationCtrl.HandleGet)
		r.Put("/{quotationID}", quotationCtrl.HandleUpdate)
		r.Delete("/{quotationID}", quotationCtrl.HandleDelete)
	})

	// Stored logos are served straight from the upload directory.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
