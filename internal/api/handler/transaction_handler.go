package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/e2recycle/platform/internal/api/metrics"
	"github.com/e2recycle/platform/internal/core/ports"
)

// TransactionHandler handles HTTP requests for commission transactions.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List handles GET /v1/transactions.
//
// @Summary      List outstanding commission transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listTransactionsResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	txs, err := h.service.ListOutstanding(c.Request().Context(), ident)
	if err != nil {
		return err
	}

	items := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, toTransactionResponse(tx))
	}
	return c.JSON(http.StatusOK, listTransactionsResponse{Data: items})
}

// Pay handles POST /v1/transactions/:id/pay.
//
// @Summary      Pay a pending commission
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Transaction id"
// @Param        body  body      payTransactionRequest  true  "Payment details"
// @Success      200   {object}  transactionResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions/{id}/pay [post]
func (h *TransactionHandler) Pay(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req payTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Pay(c.Request().Context(), ident, c.Param("id"), ports.PayInput{
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		return err
	}

	metrics.TransactionTransitionsTotal.WithLabelValues(string(updated.Status)).Inc()
	return c.JSON(http.StatusOK, toTransactionResponse(updated))
}

// Confirm handles POST /v1/transactions/:id/confirm.
//
// @Summary      Confirm or dispute a paid commission
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Transaction id"
// @Param        body  body      confirmTransactionRequest  true  "Confirmation verdict"
// @Success      200   {object}  transactionResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions/{id}/confirm [post]
func (h *TransactionHandler) Confirm(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req confirmTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Confirm(c.Request().Context(), ident, c.Param("id"), ports.ConfirmInput{
		Confirmed: *req.Confirmed,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.TransactionTransitionsTotal.WithLabelValues(string(updated.Status)).Inc()
	return c.JSON(http.StatusOK, toTransactionResponse(updated))
}
