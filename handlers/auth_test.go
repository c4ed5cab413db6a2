package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"telvia/clients"
	"telvia/models"
	"telvia/services/token"
	"telvia/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAuthURL = "http://auth.test"

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	store := token.NewRedisSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	h := NewAuthHandler(clients.NewAuthClient(testAuthURL, zap.NewNop()), store, zap.NewNop())
	r := gin.New()
	r.POST("/api/auth/login", h.LoginHandler)
	return r
}

func registerLoginResponder(t *testing.T, customerPrePaid int) {
	t.Helper()
	tok, err := utils.GenerateToken(models.TokenClaims{
		PartnerID:       7,
		CustomerPrePaid: customerPrePaid,
	}, time.Hour)
	require.NoError(t, err)
	httpmock.RegisterResponder("POST", testAuthURL+"/login",
		httpmock.NewJsonResponderOrPanic(200, clients.LoginResult{
			Token:           tok,
			IDPartner:       7,
			CustomerPrePaid: customerPrePaid,
		}))
}

func doLogin(t *testing.T, router *gin.Engine) map[string]interface{} {
	t.Helper()
	body := `{"email":"billing@meghna.example","password":"s3cretpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLoginPrepaidLandsOnDashboard(t *testing.T) {
	router := newAuthRouter(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	registerLoginResponder(t, models.BillingPrepaid)

	resp := doLogin(t, router)
	assert.Equal(t, "dashboard", resp["redirectTo"])
	assert.EqualValues(t, 7, resp["idPartner"])
	assert.NotEmpty(t, resp["token"])
}

func TestLoginPostpaidLandsOnPendingReview(t *testing.T) {
	router := newAuthRouter(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	registerLoginResponder(t, models.BillingPostpaid)

	// Same landing route the registration flow uses for postpaid accounts.
	resp := doLogin(t, router)
	assert.Equal(t, "pending-review", resp["redirectTo"])
}
