package handler

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/account-system/internal/api/metrics"
	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

// AuthHandler exposes the login facades over the credential resolver.
// Exactly one facade is mounted per deployment.
type AuthHandler struct {
	auth  ports.AuthService
	audit ports.AuditSink
}

func NewAuthHandler(auth ports.AuthService, audit ports.AuditSink) *AuthHandler {
	return &AuthHandler{auth: auth, audit: audit}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"` // accepted as an alias for identifier
	Password   string `json:"password"`
}

// Login authenticates with a JSON identifier+password body.
//
// @Summary      Login with identifier (email or username) and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.LoginResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidation("Invalid payload")
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	return h.login(c, identifier, req.Password)
}

// BasicLogin authenticates with an Authorization: Basic header carrying
// base64(user:pass). Field and error-message rules are identical to the
// JSON facade.
func (h *AuthHandler) BasicLogin(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return domain.ErrMissingCredentials
	}

	scheme, encoded, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "basic") {
		return domain.NewValidation("Invalid authorization header")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return domain.NewValidation("Invalid authorization header")
	}

	identifier, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return domain.NewValidation("Invalid authorization header")
	}

	return h.login(c, identifier, password)
}

func (h *AuthHandler) login(c echo.Context, identifier, password string) error {
	result, err := h.auth.Login(c.Request().Context(), ports.LoginInput{
		Identifier: identifier,
		Password:   password,
		Origin:     c.Request().Header.Get("Origin"),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResultLabel(err)).Inc()
		return err
	}

	// Cookie attributes must survive untouched or cross-origin session
	// continuity breaks, so the provider's Set-Cookie values are copied
	// verbatim.
	for _, sc := range result.SetCookie {
		c.Response().Header().Add("Set-Cookie", sc)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if h.audit != nil && result.User != nil {
		h.audit.Enqueue(domain.AuthEvent{
			Type:       domain.EventLogin,
			UserUUID:   result.User.UUID,
			Identifier: strings.TrimSpace(identifier),
			At:         time.Now().UTC(),
		})
	}

	return c.JSON(http.StatusOK, result)
}

func loginResultLabel(err error) string {
	switch {
	case domain.IsKind(err, domain.KindTooManyRequests):
		return "throttled"
	case domain.IsKind(err, domain.KindUnauthorized), domain.IsKind(err, domain.KindValidation):
		return "invalid_credentials"
	}
	return "error"
}
