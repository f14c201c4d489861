package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-review/errors"
	"github.com/johnquangdev/call-review/internal/adapter/dto/call"
	"github.com/johnquangdev/call-review/internal/adapter/presenter"
	"github.com/johnquangdev/call-review/internal/usecase/clients"
	"github.com/johnquangdev/call-review/internal/usecase/dashboard"
)

// View serves the derived views over the call list
type View struct {
	dashboard *dashboard.Service
	logger    *zap.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(dashboardService *dashboard.Service, logger *zap.Logger) *View {
	return &View{dashboard: dashboardService, logger: logger}
}

// Categories handles GET /views/categories?q=
func (h *View) Categories(c echo.Context) error {
	var req call.SearchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result := h.dashboard.Categories(c.Request().Context(), req.Query)
	return HandleSuccess(h.logger, c, presenter.ToCategoriesResponse(result))
}

// Clients handles GET /views/clients?sort=recent|priority|risk&q=
func (h *View) Clients(c echo.Context) error {
	var req call.ClientsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	order, err := clients.ParseSortOrder(req.Sort)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("sort must be one of recent, priority, risk"))
	}

	groups := h.dashboard.Clients(c.Request().Context(), order, req.Query)
	return HandleSuccess(h.logger, c, presenter.ToClientsResponse(string(order), groups))
}

// Stats handles GET /stats
func (h *View) Stats(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToStatsResponse(h.dashboard.Stats(c.Request().Context())))
}
