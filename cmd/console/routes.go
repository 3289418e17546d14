package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/hauwenw/ping-parking/http-server/agreements"
	authhandlers "github.com/hauwenw/ping-parking/http-server/auth"
	"github.com/hauwenw/ping-parking/http-server/customers"
	generate_excel "github.com/hauwenw/ping-parking/http-server/generate-report/generate-excel"
	"github.com/hauwenw/ping-parking/http-server/payments"
	"github.com/hauwenw/ping-parking/http-server/preview"
	"github.com/hauwenw/ping-parking/http-server/sites"
	"github.com/hauwenw/ping-parking/http-server/spaces"
	systemlogs "github.com/hauwenw/ping-parking/http-server/system-logs"
	"github.com/hauwenw/ping-parking/http-server/tags"
	"github.com/hauwenw/ping-parking/internal/config"
	metrics "github.com/hauwenw/ping-parking/internal/middleware"
	"github.com/hauwenw/ping-parking/internal/middleware/auth"
	"github.com/hauwenw/ping-parking/internal/service"
	genservice "github.com/hauwenw/ping-parking/internal/service/generate-excel"
	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
	"github.com/hauwenw/ping-parking/internal/web"
)

func routes(
	cfg config.Config,
	log *slog.Logger,
	api *restapi.Client,
	sessions *session.Manager,
	rs *web.Responder,
	pages *service.PageService,
	genService *genservice.GenerateExcelService,
) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Metrics)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.LoadSession(log, sessions, api))
		r.Use(auth.VerifyCSRF(log, sessions))

		r.Get("/login", authhandlers.LoginPage(log, rs))
		r.Post("/login", authhandlers.Login(log, rs))
		r.Post("/logout", authhandlers.Logout(log, rs))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/agreements", http.StatusFound)
			})

			r.Get("/sites", sites.GetSites(log, rs, api))
			r.Post("/sites", sites.SaveSite(log, rs, api))
			r.Post("/sites/{id}", sites.UpdateSite(log, rs, api))
			r.Post("/sites/{id}/delete", sites.DeleteSite(log, rs, api))

			r.Get("/tags", tags.GetTags(log, rs, api))
			r.Post("/tags", tags.SaveTag(log, rs, api))
			r.Post("/tags/{id}", tags.UpdateTag(log, rs, api))
			r.Post("/tags/{id}/delete", tags.DeleteTag(log, rs, api))

			r.Get("/spaces", spaces.GetSpaces(log, rs, pages))
			r.Post("/spaces", spaces.SaveSpace(log, rs, api))
			r.Post("/spaces/batch", spaces.BatchSpaces(log, rs, api))
			r.Post("/spaces/{id}", spaces.UpdateSpace(log, rs, api))
			r.Post("/spaces/{id}/delete", spaces.DeleteSpace(log, rs, api))
			r.Get("/spaces/{id}/agreements/new", spaces.NewAgreementForSpace(rs))
			r.Get("/spaces/{id}/agreement", spaces.ActiveAgreement(log, rs, pages))

			r.Get("/customers", customers.GetCustomers(log, rs, api))
			r.Post("/customers", customers.SaveCustomer(log, rs, api))
			r.Get("/customers/{id}", customers.GetCustomer(log, rs, pages))
			r.Post("/customers/{id}", customers.UpdateCustomer(log, rs, api))
			r.Get("/customers/{id}/delete", customers.ConfirmDelete(log, rs, api))
			r.Post("/customers/{id}/delete", customers.DeleteCustomer(log, rs, api))

			r.Get("/agreements", agreements.GetAgreements(log, rs, pages))
			r.Get("/agreements/new", agreements.NewAgreement(log, rs, pages))
			r.Post("/agreements", agreements.SaveAgreement(log, rs, api))
			r.Get("/agreements/{id}", agreements.GetAgreement(log, rs, pages))
			r.Post("/agreements/{id}/terminate", agreements.TerminateAgreement(log, rs, api))

			r.Post("/payments/{id}/complete", payments.CompletePayment(log, rs, api))
			r.Post("/payments/{id}", payments.UpdatePayment(log, rs, api))

			r.Get("/system-logs", systemlogs.GetSystemLogs(log, rs, api))
			r.Get("/system-logs/export", systemlogs.Export(
				systemlogs.ExportCSV(log, rs, api),
				generate_excel.SystemLogsReport(log, rs, genService),
			))
		})

		// CORS runs before RequireUser so preflight requests are answered.
		r.Route("/api/preview", func(r chi.Router) {
			r.Use(corsHandler.Handler)
			r.Use(auth.RequireUser)

			r.Get("/batch-names", preview.BatchNames(log))
			r.Get("/price", preview.Price(log, api))
		})
	})

	return router
}
