package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/e2recycle/platform/internal/api/metrics"
	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/ports"
	"github.com/e2recycle/platform/internal/infrastructure/qrcode"
)

// RequestHandler handles HTTP requests for recycling request operations.
type RequestHandler struct {
	service ports.RequestService
	qr      *qrcode.Generator
}

func NewRequestHandler(service ports.RequestService, qr *qrcode.Generator) *RequestHandler {
	return &RequestHandler{service: service, qr: qr}
}

// Submit handles POST /v1/requests.
//
// @Summary      Submit a recycling request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      submitRequestRequest  true   "Request details"
// @Success      201              {object}  requestResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Router       /v1/requests [post]
func (h *RequestHandler) Submit(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Submit(c.Request().Context(), ident, ports.SubmitRequestInput{
		ProductName:    req.ProductName,
		ProductType:    req.ProductType,
		Description:    req.Description,
		Quantity:       req.Quantity,
		EstimatedPrice: req.EstimatedPrice,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	metrics.RequestsSubmittedTotal.WithLabelValues(created.ProductType).Inc()
	return c.JSON(http.StatusCreated, toRequestResponse(created))
}

// Get handles GET /v1/requests/:id.
//
// @Summary      Get a recycling request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  requestResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	request, err := h.service.Get(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(request))
}

// List handles GET /v1/requests.
//
// @Summary      List recycling requests in the caller's scope
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status        query     string  false  "Filter by status"
// @Param        product_type  query     string  false  "Filter by product type"
// @Param        page          query     int     false  "Page (1-based)"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Success      200  {object}  listRequestsResponse
// @Router       /v1/requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ident, ports.ListRequestsInput{
		Status:      c.QueryParam("status"),
		ProductType: c.QueryParam("product_type"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	items := make([]requestResponse, 0, len(result.Items))
	for _, r := range result.Items {
		items = append(items, toRequestResponse(r))
	}
	return c.JSON(http.StatusOK, listRequestsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Review handles POST /v1/requests/:id/review.
//
// @Summary      Approve or reject a pending request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Request id"
// @Param        body  body      reviewRequestRequest  true  "Review decision"
// @Success      200   {object}  requestResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/requests/{id}/review [post]
func (h *RequestHandler) Review(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req reviewRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Review(c.Request().Context(), ident, c.Param("id"), ports.ReviewDecision(req.Decision))
	if err != nil {
		return err
	}

	metrics.RequestTransitionsTotal.WithLabelValues(string(updated.Status)).Inc()
	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// Accept handles POST /v1/requests/:id/accept.
//
// @Summary      Accept an approved request as a recycler
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  acceptResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse  "Outstanding commission debt"
// @Failure      422  {object}  errorResponse
// @Router       /v1/requests/{id}/accept [post]
func (h *RequestHandler) Accept(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Accept(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		var ppe *domain.PaymentPendingError
		if errors.As(err, &ppe) {
			metrics.AcceptsGatedTotal.Inc()
		}
		return err
	}

	metrics.RequestTransitionsTotal.WithLabelValues(string(result.Request.Status)).Inc()
	metrics.CommissionAmount.Observe(result.Transaction.CommissionAmount)
	return c.JSON(http.StatusOK, acceptResponse{
		Request:     toRequestResponse(result.Request),
		Transaction: toTransactionResponse(result.Transaction),
	})
}

// Complete handles POST /v1/requests/:id/complete.
//
// @Summary      Mark an accepted request as completed
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  requestResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/requests/{id}/complete [post]
func (h *RequestHandler) Complete(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	updated, err := h.service.Complete(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.RequestTransitionsTotal.WithLabelValues(string(updated.Status)).Inc()
	return c.JSON(http.StatusOK, toRequestResponse(updated))
}

// SecretCode handles GET /v1/requests/:id/secret-code.
//
// @Summary      Reveal the pickup secret code
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  secretCodeResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/requests/{id}/secret-code [get]
func (h *RequestHandler) SecretCode(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	code, err := h.service.GetSecretCode(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, secretCodeResponse{
		RequestID:  c.Param("id"),
		SecretCode: code,
	})
}

// SecretCodeQR handles GET /v1/requests/:id/secret-code/qr. Same gate as
// SecretCode, rendered as a PNG QR for drop-off coordination.
//
// @Summary      Pickup secret code as a QR image
// @Tags         requests
// @Produce      png
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {file}    binary
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/requests/{id}/secret-code/qr [get]
func (h *RequestHandler) SecretCodeQR(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	requestID := c.Param("id")
	code, err := h.service.GetSecretCode(c.Request().Context(), ident, requestID)
	if err != nil {
		return err
	}

	request, err := h.service.Get(c.Request().Context(), ident, requestID)
	if err != nil {
		return err
	}

	png, err := h.qr.PickupPNG(request.UniqueCode, code)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
