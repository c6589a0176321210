package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/prasetyowira/qrstudio/api/middleware"
	"github.com/prasetyowira/qrstudio/constant"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Router represents the application router
type Router struct {
	handler *Handler
	metrics http.Handler
	router  *chi.Mux
}

// NewRouter creates a new router. metrics may be nil to leave /metrics unmounted.
func NewRouter(handler *Handler, metrics http.Handler) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogger())

	return &Router{
		handler: handler,
		metrics: metrics,
		router:  r,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	r.router.Post(constant.RoutePayload, r.handler.Payload)
	r.router.Post(constant.RoutePreview, r.handler.Preview)
	r.router.Post(constant.RouteExport, r.handler.Export)

	r.router.Get(constant.RouteBulk, r.handler.BulkState)
	r.router.Post(constant.RouteBulkUpload, r.handler.BulkUpload)
	r.router.Post(constant.RouteBulkStart, r.handler.BulkStart)
	r.router.Post(constant.RouteBulkCancel, r.handler.BulkCancel)
	r.router.Get(constant.RouteBulkArchive, r.handler.BulkArchive)

	r.router.Get(constant.RouteTheme, r.handler.GetTheme)
	r.router.Put(constant.RouteTheme, r.handler.SetTheme)
	r.router.Post(constant.RouteThemeToggle, r.handler.ToggleTheme)

	if r.metrics != nil {
		r.router.Method(http.MethodGet, constant.RouteMetrics, r.metrics)
	}

	// Healthcheck
	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, r *http.Request) {
		appLogger.CtxDebug(r.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(constant.MsgHealthy))
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
