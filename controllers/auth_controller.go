package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rscollections/storefront/middleware"
	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/services"
)

type AuthController struct {
	login    *services.LoginService
	sessions *middleware.SessionManager
}

func NewAuthController(login *services.LoginService, sessions *middleware.SessionManager) *AuthController {
	return &AuthController{login: login, sessions: sessions}
}

// Me reports the caller's identity so the client can render the account
// state without a round trip through the login flow.
func (ac *AuthController) Me(c *gin.Context) {
	sess := middleware.FromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": sess.Authenticated(),
		"email":         sess.Email,
		"role":          sess.Role,
	})
}

// State returns which login step the session is on.
func (ac *AuthController) State(c *gin.Context) {
	sess := middleware.FromContext(c)
	state, err := ac.login.State(c.Request.Context(), sess)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type requestOTPRequest struct {
	Email string `json:"email"`
}

// RequestOTP starts the flow for an email and advances to the code step.
func (ac *AuthController) RequestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	sess := middleware.FromContext(c)
	state, err := ac.login.RequestOTP(c.Request.Context(), sess, req.Email)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ResendOTP re-sends the code, subject to the cooldown.
func (ac *AuthController) ResendOTP(c *gin.Context) {
	sess := middleware.FromContext(c)
	state, err := ac.login.Resend(c.Request.Context(), sess)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type verifyOTPRequest struct {
	Code string `json:"code"`
}

// VerifyOTP checks the code, promotes the session to customer, hydrates the
// profile state and replays any pending item, then hands back the path the
// user was on before logging in.
func (ac *AuthController) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	sess := middleware.FromContext(c)
	user, err := ac.login.Verify(c.Request.Context(), sess, req.Code)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	promoted := ac.sessions.Promote(c, user.Email, models.RoleCustomer)
	redirect, err := ac.login.Finalize(c.Request.Context(), promoted)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email":    promoted.Email,
		"name":     user.Name,
		"redirect": redirect,
	})
}

type rememberPathRequest struct {
	Path string `json:"path"`
}

// RememberPath records where to send the user after login completes.
func (ac *AuthController) RememberPath(c *gin.Context) {
	var req rememberPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	sess := middleware.FromContext(c)
	if err := ac.login.RememberPath(c.Request.Context(), sess, req.Path); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "saved"})
}

// Logout drops the session state and expires the cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	sess := middleware.FromContext(c)
	if err := ac.login.Logout(c.Request.Context(), sess); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	ac.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
