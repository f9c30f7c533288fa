package handlers

import "github.com/go-chi/chi/v5"

// Mount registers the API routes on r
func Mount(r chi.Router, dashboard *DashboardHandler, health *HealthHandler) {
	r.Get("/health", health.GetHealth)
	r.Get("/healthz", health.GetHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", dashboard.GetOptions)
		r.Get("/dashboard", dashboard.GetDashboard)
		r.Get("/dashboard/summary", dashboard.GetSummary)
		r.Get("/dashboard/map", dashboard.GetMap)
		r.Get("/dashboard/airlines", dashboard.GetAirlines)
		r.Put("/filter", dashboard.UpdateFilter)
		r.Get("/export.xlsx", dashboard.ExportXLSX)
	})
}
