package handlers

import (
	"net/http"

	"telvia/clients"
	"telvia/middleware"
	"telvia/models"
	"telvia/services/token"
	"telvia/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler proxies credential logins to the auth backend and owns the
// portal session lifecycle built on top of them.
type AuthHandler struct {
	Auth   *clients.AuthClient
	Store  token.SessionStore
	Logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(auth *clients.AuthClient, store token.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Store: store, Logger: logger}
}

// LoginHandler exchanges credentials for a session. The backend token is
// saved in the session store so expiry is enforced server-side.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	login, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	claims, err := utils.ParseClaims(login.Token)
	if err != nil {
		h.Logger.Error("auth backend returned an unusable token", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "login produced an unusable token"})
		return
	}
	if login.CustomerPrePaid != 0 {
		claims.CustomerPrePaid = login.CustomerPrePaid
	}
	if len(login.AuthRoles) > 0 {
		claims.Roles = login.AuthRoles
	}
	claims.Email = req.Email

	if err := h.Store.Save(c.Request.Context(), login.Token, *claims); err != nil {
		writeServiceError(c, err)
		return
	}

	seconds, err := h.Store.SecondsRemaining(c.Request.Context(), login.Token)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Postpaid accounts land on the same review page the wizard sends them
	// to, so clients carry a single route mapping.
	redirect := "dashboard"
	if claims.CustomerPrePaid == models.BillingPostpaid {
		redirect = "pending-review"
	}
	c.JSON(http.StatusOK, gin.H{
		"token":            login.Token,
		"idPartner":        claims.PartnerID,
		"customerPrePaid":  claims.CustomerPrePaid,
		"roles":            claims.Roles,
		"secondsRemaining": seconds,
		"redirectTo":       redirect,
	})
}

// LogoutHandler clears the session.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	tokenString := c.GetString(middleware.ContextTokenKey)
	if err := h.Store.Clear(c.Request.Context(), tokenString); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// SessionHandler reports the live session's claims and remaining lifetime.
// Clients drive their expiry timers from this instead of decoding the token.
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	tokenString := c.GetString(middleware.ContextTokenKey)
	seconds, err := h.Store.SecondsRemaining(c.Request.Context(), tokenString)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"idPartner":        claims.PartnerID,
		"customerPrePaid":  claims.CustomerPrePaid,
		"roles":            claims.Roles,
		"email":            claims.Email,
		"secondsRemaining": seconds,
	})
}
