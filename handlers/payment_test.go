package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"telvia/models"
	"telvia/services/checkout"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCheckoutService struct {
	completed []models.CallbackParams
	discarded []string
	pending   *models.PendingPurchase
	err       error
}

func (s *stubCheckoutService) Checkout(ctx context.Context, claims models.TokenClaims, req checkout.CheckoutRequest) (*checkout.CheckoutResult, error) {
	return nil, nil
}

func (s *stubCheckoutService) CompleteFromCallback(ctx context.Context, params models.CallbackParams) (*models.PendingPurchase, error) {
	if s.err != nil {
		return s.pending, s.err
	}
	s.completed = append(s.completed, params)
	return &models.PendingPurchase{PartnerID: 7, ServiceType: models.ServiceHostedPBX}, nil
}

func (s *stubCheckoutService) AbandonFromCallback(ctx context.Context, params models.CallbackParams) error {
	s.discarded = append(s.discarded, params.TransactionID)
	return nil
}

func newPaymentRouter(svc checkout.CheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(svc, "http://portal.test", zap.NewNop())
	r := gin.New()
	r.POST("/api/payment/success", h.SuccessHandler)
	r.GET("/api/payment/success", h.SuccessHandler)
	r.POST("/api/payment/fail", h.FailHandler)
	r.POST("/api/payment/cancel", h.CancelHandler)
	return r
}

func TestSuccessCallbackFormPost(t *testing.T) {
	stub := &stubCheckoutService{}
	router := newPaymentRouter(stub)

	form := url.Values{"tran_id": {"tran-1"}, "status": {"VALID"}, "val_id": {"v-9"}}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/success", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "http://portal.test/pg/success?tran_id=tran-1&service=hosted-pbx", w.Header().Get("Location"))

	require.Len(t, stub.completed, 1)
	assert.Equal(t, "tran-1", stub.completed[0].TransactionID)
	assert.Equal(t, "VALID", stub.completed[0].Status)
	assert.Equal(t, "v-9", stub.completed[0].ValidationID)
}

func TestSuccessCallbackQueryParams(t *testing.T) {
	stub := &stubCheckoutService{}
	router := newPaymentRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/payment/success?tran_id=tran-2&status=VALID", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, stub.completed, 1)
	assert.Equal(t, "tran-2", stub.completed[0].TransactionID)
}

func TestReplayedSuccessStillRedirects(t *testing.T) {
	stub := &stubCheckoutService{err: checkout.ErrAlreadyConsumed}
	router := newPaymentRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/payment/success?tran_id=tran-3&status=VALID", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The browser still lands on the receipt; nothing re-provisions.
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "http://portal.test/pg/success?tran_id=tran-3", w.Header().Get("Location"))
	assert.Empty(t, stub.completed)
}

func TestActivationFailureStillLandsOnReceipt(t *testing.T) {
	stub := &stubCheckoutService{
		err:     checkout.ErrActivationFailed,
		pending: &models.PendingPurchase{PartnerID: 7, ServiceType: models.ServiceHostedPBX},
	}
	router := newPaymentRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/payment/success?tran_id=tran-6&status=VALID", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The payment settled, so the browser must not land on the fail page.
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t,
		"http://portal.test/pg/success?tran_id=tran-6&provisioning=failed&service=hosted-pbx",
		w.Header().Get("Location"))
}

func TestFailedPaymentRedirectsToFailPage(t *testing.T) {
	stub := &stubCheckoutService{err: checkout.ErrPaymentFailed}
	router := newPaymentRouter(stub)

	form := url.Values{"tran_id": {"tran-4"}, "status": {"FAILED"}}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/success", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "http://portal.test/pg/fail?tran_id=tran-4", w.Header().Get("Location"))
}

func TestFailAndCancelDiscardPending(t *testing.T) {
	stub := &stubCheckoutService{}
	router := newPaymentRouter(stub)

	for _, path := range []string{"/api/payment/fail", "/api/payment/cancel"} {
		form := url.Values{"tran_id": {"tran-5"}}
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusSeeOther, w.Code)
	}
	assert.Equal(t, []string{"tran-5", "tran-5"}, stub.discarded)
}
