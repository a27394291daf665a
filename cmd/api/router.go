package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/leasing-crm/internal/auth"
	"github.com/xavierca1/leasing-crm/internal/infra/http/handlers"
	"github.com/xavierca1/leasing-crm/internal/infra/http/middleware"
)

type routes struct {
	Health       *handlers.HealthHandler
	VisitingLead *handlers.VisitingLeadHandler
	Prospect     *handlers.ProspectHandler
	Client       *handlers.ClientHandler
	Proposal     *handlers.ProposalHandler
	SpacePlan    *handlers.SpacePlanHandler
	Account      *handlers.AccountHandler
}

func newRouter(h routes, authn *auth.Authenticator, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(authn.Middleware)

		r.Route("/visiting-leads", func(r chi.Router) {
			r.Get("/", h.VisitingLead.List)
			r.Post("/claim", h.VisitingLead.Claim)
			r.Post("/remove", h.VisitingLead.Remove)
			r.Get("/{leadID}", h.VisitingLead.Get)
		})

		r.Route("/prospects", func(r chi.Router) {
			r.Get("/", h.Prospect.List)
			r.Get("/{leadID}/journey", h.Prospect.Journey)
			r.Get("/{leadID}/comments", h.Prospect.Comments)
			r.Post("/{leadID}/visited", h.Prospect.MarkVisited)
			r.Post("/{leadID}/visit", h.Prospect.RecordVisit)
			r.Get("/{leadID}/files", h.Prospect.Files)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.Client.List)
			r.Get("/{leadID}", h.Client.Details)
			r.Get("/{leadID}/seats", h.Client.Seats)
			r.Get("/{leadID}/attachments", h.Client.Attachments)
			r.Get("/{leadID}/summary", h.Client.Summary)
			r.Get("/{leadID}/export", h.Client.Export)
		})

		r.Post("/proposals", h.Proposal.Create)
		r.Get("/catalog/seats", h.Proposal.Seats)
		r.Get("/catalog/amenities", h.Proposal.Amenities)

		r.Route("/space-plans", func(r chi.Router) {
			r.Post("/", h.SpacePlan.SaveRequirement)
			r.Get("/lead/{leadID}", h.SpacePlan.GetByLead)
			r.Get("/{name}/details", h.SpacePlan.Details)
		})

		r.Get("/maf", h.Account.MAF)
		r.Get("/roles", h.Account.LoginRoles)
	})

	return r
}
