package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-review/errors"
	"github.com/johnquangdev/call-review/internal/adapter/dto/call"
	"github.com/johnquangdev/call-review/internal/adapter/dto/common"
	"github.com/johnquangdev/call-review/internal/adapter/presenter"
	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/internal/infrastructure/cache"
	"github.com/johnquangdev/call-review/internal/usecase/dashboard"
	"github.com/johnquangdev/call-review/internal/usecase/intake"
)

// Call handles call submission and listing requests
type Call struct {
	intake    *intake.Service
	dashboard *dashboard.Service
	notices   *cache.NoticeBoard
	logger    *zap.Logger
}

// NewCallHandler creates a new call handler
func NewCallHandler(intakeService *intake.Service, dashboardService *dashboard.Service, notices *cache.NoticeBoard, logger *zap.Logger) *Call {
	return &Call{
		intake:    intakeService,
		dashboard: dashboardService,
		notices:   notices,
		logger:    logger,
	}
}

// Submit handles POST /calls
// Accepts a multipart "file" field and returns the processing placeholder.
func (h *Call) Submit(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		// A body cut off by the size limit is rendered by the router's error handler
		var he *echo.HTTPError
		if stdErrors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return he
		}
		return HandleError(h.logger, c, errors.ErrMissingFile())
	}

	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Could not read uploaded file"))
	}
	defer f.Close()

	placeholder, err := h.intake.Submit(c.Request().Context(), intake.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleAccepted(h.logger, c, presenter.ToCallResponse(placeholder))
}

// List handles GET /calls?q=
func (h *Call) List(c echo.Context) error {
	var req call.SearchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	calls := h.dashboard.Completed(c.Request().Context(), req.Query)
	return HandleSuccess(h.logger, c, common.ListResponse{
		Items: presenter.ToCallList(calls),
		Total: len(calls),
	})
}

// Queue handles GET /calls/queue
func (h *Call) Queue(c echo.Context) error {
	calls := h.dashboard.Queue(c.Request().Context())
	return HandleSuccess(h.logger, c, common.ListResponse{
		Items: presenter.ToCallList(calls),
		Total: len(calls),
	})
}

// Failures handles GET /calls/failures
func (h *Call) Failures(c echo.Context) error {
	notices := h.notices.Recent()
	return HandleSuccess(h.logger, c, common.ListResponse{
		Items: presenter.ToNoticeList(notices),
		Total: len(notices),
	})
}

// DismissFailure handles DELETE /calls/failures/:id
func (h *Call) DismissFailure(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.notices.Get(id); !ok {
		return HandleError(h.logger, c, errors.ErrNotFound("Notice").WithDetail("notice_id", id))
	}
	h.notices.Delete(id)
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /calls/:id
func (h *Call) Get(c echo.Context) error {
	id := c.Param("id")
	record, err := h.dashboard.Get(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrCallNotFound) {
			return HandleError(h.logger, c, errors.ErrCallNotFound(id))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, presenter.ToCallResponse(record))
}

// bindAndValidate binds query parameters into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}
