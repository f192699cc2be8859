package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/account-system/internal/api/metrics"
	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
	"github.com/marketsquare/account-system/internal/identity"
)

// ProviderHandler is the identity provider's HTTP facade: sign-up, sign-in,
// get-session and sign-out. Mutating operations enforce the trusted-origin
// check; sign-in and sign-up issue the session cookie.
type ProviderHandler struct {
	identity       ports.Identity
	audit          ports.AuditSink
	trustedOrigins map[string]struct{}
	cookieTTL      time.Duration
	secureCookies  bool
}

func NewProviderHandler(ident ports.Identity, audit ports.AuditSink, trustedOrigins []string, cookieTTL time.Duration, secureCookies bool) *ProviderHandler {
	trusted := make(map[string]struct{}, len(trustedOrigins))
	for _, origin := range trustedOrigins {
		trusted[origin] = struct{}{}
	}
	return &ProviderHandler{
		identity:       ident,
		audit:          audit,
		trustedOrigins: trusted,
		cookieTTL:      cookieTTL,
		secureCookies:  secureCookies,
	}
}

type signUpRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4"`
	Username  string `json:"username" validate:"omitempty,username"`
	FirstName string `json:"firstName" validate:"omitempty,personname"`
	LastName  string `json:"lastName" validate:"omitempty,personname"`
	BirthDate string `json:"birthDate"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User *domain.User `json:"user"`
}

// SignUp creates an account and opens a session.
//
// @Summary      Sign up with email and password
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Signup payload"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/sign-up/email [post]
func (h *ProviderHandler) SignUp(c echo.Context) error {
	if err := h.checkOrigin(c); err != nil {
		return err
	}

	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidation("Invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return domain.NewValidation(err.Error())
	}

	user, token, err := h.identity.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupResultLabel(err)).Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	if h.audit != nil {
		h.audit.Enqueue(domain.AuthEvent{
			Type:       domain.EventSignup,
			UserUUID:   user.UUID,
			Identifier: user.Email,
			At:         time.Now().UTC(),
		})
	}

	c.SetCookie(h.sessionCookie(token))
	return c.JSON(http.StatusOK, sessionResponse{User: user})
}

// SignIn verifies credentials and opens a session.
func (h *ProviderHandler) SignIn(c echo.Context) error {
	if err := h.checkOrigin(c); err != nil {
		return err
	}

	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidation("Invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return domain.ErrInvalidCredentials
	}

	user, token, err := h.identity.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(token))
	return c.JSON(http.StatusOK, sessionResponse{User: user})
}

// GetSession resolves the session cookie to its user. The response is the
// single source of truth for "is logged in".
func (h *ProviderHandler) GetSession(c echo.Context) error {
	cookie, err := c.Cookie(identity.SessionCookie)
	if err != nil || cookie.Value == "" {
		return domain.ErrSessionNotFound
	}

	user, err := h.identity.GetSession(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{User: user})
}

// SignOut revokes the session and expires the cookie. Revocation failures
// do not surface: the cookie is gone either way and the record expires by
// TTL.
func (h *ProviderHandler) SignOut(c echo.Context) error {
	if err := h.checkOrigin(c); err != nil {
		return err
	}

	if cookie, err := c.Cookie(identity.SessionCookie); err == nil && cookie.Value != "" {
		_ = h.identity.SignOut(c.Request().Context(), cookie.Value)
	}

	expired := h.sessionCookie("")
	expired.MaxAge = -1
	c.SetCookie(expired)

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// checkOrigin rejects browser calls from unknown origins. Requests without
// an Origin header (curl, server-to-server) pass through.
func (h *ProviderHandler) checkOrigin(c echo.Context) error {
	origin := c.Request().Header.Get("Origin")
	if origin == "" {
		return nil
	}
	if _, ok := h.trustedOrigins[origin]; !ok {
		return domain.NewForbidden("Origin not trusted")
	}
	return nil
}

func (h *ProviderHandler) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     identity.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	}
}

func signupResultLabel(err error) string {
	switch {
	case domain.IsKind(err, domain.KindConflict):
		return "conflict"
	case domain.IsKind(err, domain.KindValidation):
		return "invalid"
	}
	return "error"
}
