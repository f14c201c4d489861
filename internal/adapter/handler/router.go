package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/johnquangdev/call-review/errors"
	"github.com/johnquangdev/call-review/internal/adapter/dto/common"
	"github.com/johnquangdev/call-review/internal/usecase/dashboard"
	"github.com/johnquangdev/call-review/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg         *config.Config
	callHandler *Call
	viewHandler *View
	dashboard   *dashboard.Service
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, callHandler *Call, viewHandler *View, dashboardService *dashboard.Service) *Router {
	return &Router{
		cfg:         cfg,
		callHandler: callHandler,
		viewHandler: viewHandler,
		dashboard:   dashboardService,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = rt.errorHandler(e.DefaultHTTPErrorHandler)

	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupCallRoutes(v1)
	rt.setupViewRoutes(v1)
}

// setupCallRoutes configures call intake and listing routes
func (rt *Router) setupCallRoutes(g *echo.Group) {
	calls := g.Group("/calls")

	calls.POST("", rt.callHandler.Submit, middleware.BodyLimit(rt.bodyLimit()))
	calls.GET("", rt.callHandler.List)
	calls.GET("/queue", rt.callHandler.Queue)
	calls.GET("/failures", rt.callHandler.Failures)
	calls.DELETE("/failures/:id", rt.callHandler.DismissFailure)
	calls.GET("/:id", rt.callHandler.Get)
}

// setupViewRoutes configures the derived views
func (rt *Router) setupViewRoutes(g *echo.Group) {
	views := g.Group("/views")
	views.GET("/categories", rt.viewHandler.Categories)
	views.GET("/clients", rt.viewHandler.Clients)

	g.GET("/stats", rt.viewHandler.Stats)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	resp := common.HealthResponse{Status: "ok"}
	if rt.cfg != nil {
		resp.Environment = rt.cfg.Server.Environment
	}
	if rt.dashboard != nil {
		resp.InFlight = len(rt.dashboard.Queue(c.Request().Context()))
	}
	return c.JSON(http.StatusOK, resp)
}

// bodyLimit leaves 1MB of headroom for the multipart envelope; the file itself is checked in intake
func (rt *Router) bodyLimit() string {
	return fmt.Sprintf("%dM", rt.maxFileSizeMB()+1)
}

func (rt *Router) maxFileSizeMB() int {
	if rt.cfg == nil || rt.cfg.Upload.MaxFileSizeMB <= 0 {
		return 10
	}
	return rt.cfg.Upload.MaxFileSizeMB
}

// errorHandler renders errors raised by middleware, such as the body limit, through HandleError
func (rt *Router) errorHandler(fallback echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if stdErrors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			_ = HandleError(rt.callHandler.logger, c, errors.ErrFileTooLarge("", rt.maxFileSizeMB()))
			return
		}
		fallback(err, c)
	}
}
