package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"zamar-backend/internal/model"
	"zamar-backend/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var orderPayload = map[string]string{
	"recipient": "Mum",
	"occasion":  "60th birthday",
	"story":     "She sang to us every night.",
	"tier":      "premium",
}

func (e *testEnv) createOrder(token string) uint {
	e.t.Helper()
	resp, body := e.do(jsonRequest(http.MethodPost, "/api/orders", token, orderPayload))
	require.Equal(e.t, http.StatusCreated, resp.StatusCode, body)
	return uint(dataMap(e.t, body)["ID"].(float64))
}

func TestOrders_Tiers(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})

	resp, body := env.do(jsonRequest(http.MethodGet, "/api/orders/tiers", "", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, dataList(t, body), len(model.SongTiers))
}

func TestOrders_CreateAndCheckout(t *testing.T) {
	gw := &mockGateway{}
	env := newTestEnv(t, gw)
	buyer := env.user("buyer@example.com", model.RoleListener, nil)
	token := env.token(buyer)

	orderID := env.createOrder(token)

	gw.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req payment.CheckoutRequest) bool {
		return req.Kind == model.PaymentKindCustomSong &&
			req.ReferenceID == orderID &&
			req.UserID == buyer.ID &&
			req.AmountCents == 9900 &&
			req.Currency == "usd" &&
			req.CustomerEmail == "buyer@example.com"
	})).Return(&payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil).Once()

	resp, body := env.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/orders/%d/checkout", orderID), token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", dataMap(t, body)["url"])
	gw.AssertExpectations(t)

	var order model.CustomSongOrder
	require.NoError(t, env.db.First(&order, orderID).Error)
	assert.Equal(t, "cs_test_1", order.StripeSessionID)
	assert.Equal(t, model.OrderPendingPayment, order.Status)
}

func TestOrders_CheckoutGuards(t *testing.T) {
	gw := &mockGateway{}
	env := newTestEnv(t, gw)
	owner := env.token(env.user("owner@example.com", model.RoleListener, nil))
	other := env.token(env.user("other@example.com", model.RoleListener, nil))
	orderID := env.createOrder(owner)
	target := fmt.Sprintf("/api/orders/%d/checkout", orderID)

	resp, _ := env.do(jsonRequest(http.MethodPost, target, other, nil))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(jsonRequest(http.MethodPost, "/api/orders/999/checkout", owner, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	gw.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("stripe down")).Once()
	resp, body := env.do(jsonRequest(http.MethodPost, target, owner, nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to start checkout", body["error"])

	resp, _ = env.do(jsonRequest(http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", orderID), owner, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(jsonRequest(http.MethodPost, target, owner, nil))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	gw.AssertExpectations(t)
}

func TestOrders_CreateValidation(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	token := env.token(env.user("buyer@example.com", model.RoleListener, nil))

	resp, _ := env.do(jsonRequest(http.MethodPost, "/api/orders", token, map[string]string{"recipient": "Mum"}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad := map[string]string{"recipient": "Mum", "occasion": "x", "story": "y", "tier": "platinum"}
	resp, body := env.do(jsonRequest(http.MethodPost, "/api/orders", token, bad))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unknown tier")
}

func TestOrders_OwnerOnlyRead(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	owner := env.token(env.user("owner@example.com", model.RoleListener, nil))
	other := env.token(env.user("other@example.com", model.RoleListener, nil))
	orderID := env.createOrder(owner)

	resp, _ := env.do(jsonRequest(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), owner, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(jsonRequest(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), other, nil))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.do(jsonRequest(http.MethodGet, "/api/orders", other, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])
}

func TestOrders_AdminAdvance(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	buyer := env.user("buyer@example.com", model.RoleListener, nil)
	admin := env.token(env.user("admin@example.com", model.RoleAdmin, nil))
	orderID := env.createOrder(env.token(buyer))
	target := fmt.Sprintf("/api/admin/orders/%d/status", orderID)

	// Unpaid orders cannot move into production
	resp, _ := env.do(jsonRequest(http.MethodPut, target, admin, map[string]string{"status": model.OrderInProduction}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, env.db.Model(&model.CustomSongOrder{}).Where("id = ?", orderID).Update("status", model.OrderPaid).Error)

	resp, body := env.do(jsonRequest(http.MethodPut, target, admin, map[string]string{"status": model.OrderInProduction}))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, model.OrderInProduction, dataMap(t, body)["status"])

	resp, _ = env.do(jsonRequest(http.MethodPut, target, admin, map[string]string{"status": model.OrderDelivered}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	song := env.publishedSong("Mums Song", "Ballad")
	resp, body = env.do(jsonRequest(http.MethodPut, target, admin, map[string]interface{}{"status": model.OrderDelivered, "song_id": song.ID}))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(song.ID), dataMap(t, body)["delivered_song_id"])

	resp, _ = env.do(jsonRequest(http.MethodPut, target, env.token(buyer), map[string]string{"status": model.OrderInProduction}))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
