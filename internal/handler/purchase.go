package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/service"
	"github.com/iliyamo/sonic-seats/internal/utils"
)

// ReceiptHeader carries the signed receipt of a successful purchase.
const ReceiptHeader = "X-Purchase-Receipt"

// PurchaseHandler takes purchases and verifies their receipts.
type PurchaseHandler struct {
	Purchases     *service.PurchaseService
	Cache         Invalidator
	Log           *zap.Logger
	ReceiptSecret string
	ReceiptTTL    time.Duration
}

// Purchase handles POST /purchase.
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	ctx := c.Request().Context()
	res, err := h.Purchases.Purchase(ctx, service.PurchaseRequest{
		ConcertID:     c.FormValue("concertId"),
		Seats:         c.FormValue("seats"),
		PaymentMethod: c.FormValue("paymentMethod"),
	})
	if err != nil {
		return err
	}
	invalidate(ctx, h.Cache, h.Log, DocConcerts)

	// The purchase is already persisted; a signing failure only costs the
	// client its receipt.
	receipt, err := utils.NewReceipt(h.ReceiptSecret, utils.ReceiptClaims{
		PurchaseID:    res.Purchase.PurchaseID,
		ConcertID:     res.Purchase.ConcertID,
		Seats:         res.Purchase.Seats,
		PaymentMethod: res.Purchase.PaymentMethod,
		Total:         res.Total,
	}, h.ReceiptTTL)
	if err != nil {
		h.Log.Warn("receipt not issued", zap.Int("purchase_id", res.Purchase.PurchaseID), zap.Error(err))
	} else {
		c.Response().Header().Set(ReceiptHeader, receipt.Token)
	}
	return c.String(http.StatusOK, "Purchase successfully received!")
}

// Receipt handles GET /receipt?token=... and returns the verified claims.
func (h *PurchaseHandler) Receipt(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errs.Validation("A receipt token is required.")
	}
	claims, err := utils.VerifyReceipt(h.ReceiptSecret, token)
	if err != nil {
		return errs.Validation("The receipt is not valid.")
	}
	return c.JSON(http.StatusOK, claims)
}
