package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/service"
	"github.com/tallyworks/compliance/internal/compliance/store"
	"github.com/tallyworks/compliance/pkg/httpx"
	"github.com/tallyworks/compliance/pkg/slogx"
	"github.com/tallyworks/compliance/pkg/tincrypt"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	cipher *tincrypt.Cipher

	ContractorService *service.ContractorService
	PaymentService    *service.PaymentService
	ReportingService  *service.ReportingService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	cipher *tincrypt.Cipher,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cipher:       cipher,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerW9()
	r.registerContractors()
	r.registerPayments()
	r.registerReports()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerW9() {
	h := &W9SubmitHandler{ContractorService: r.ContractorService}

	// POST /w9/submit - moderate rate limit by IP (public intake endpoint)
	r.Mux.Handle("POST /v1/w9/submit",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerContractors() {
	h := &ContractorsHandler{ContractorService: r.ContractorService}

	r.Mux.Handle("GET /v1/contractors",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/contractors/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /contractors/{id}/tin - strict rate limit (plaintext TIN access)
	reveal := &TINRevealHandler{ContractorService: r.ContractorService}
	r.Mux.Handle("GET /v1/contractors/{id}/tin",
		httpx.Chain(reveal,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerPayments() {
	record := &RecordPaymentHandler{PaymentService: r.PaymentService}
	list := &ListPaymentsHandler{PaymentService: r.PaymentService}

	r.Mux.Handle("POST /v1/payments",
		httpx.Chain(record,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/contractors/{id}/payments",
		httpx.Chain(list,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerReports() {
	total := &TotalHandler{ReportingService: r.ReportingService}
	report := &ThresholdReportHandler{ReportingService: r.ReportingService}
	generate := &GenerateFormsHandler{ReportingService: r.ReportingService}

	r.Mux.Handle("GET /v1/contractors/{id}/total",
		httpx.Chain(total,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/reports/1099",
		httpx.Chain(report,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/reports/1099/generate",
		httpx.Chain(generate,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cipher),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
