package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/logging"
)

// TokenIntrospectionRequest is the payload sent to the introspection endpoint
type TokenIntrospectionRequest struct {
	IdentityProvider string `json:"identity_provider"`
	Token            string `json:"token"`
}

// TokenIntrospectionResponse is the answer of the introspection endpoint
type TokenIntrospectionResponse struct {
	Active bool           `json:"active"`
	Claims map[string]any `json:"claims,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// identityClaims are tried in order to find who a token belongs to
var identityClaims = []string{"NAVident", "navident", "nav_ident", "preferred_username", "sub", "upn"}

// AuthMiddleware guards admin routes with bearer tokens checked against an
// introspection endpoint and a list of admin identities
type AuthMiddleware struct {
	cfg        config.AuthConfig
	httpClient *http.Client
	log        *slog.Logger
}

// NewAuthMiddleware creates the middleware. An empty introspection endpoint
// rejects every admin request.
func NewAuthMiddleware(cfg config.AuthConfig, log *slog.Logger) *AuthMiddleware {
	if cfg.IdentityProvider == "" {
		cfg.IdentityProvider = "azuread"
	}
	if cfg.IntrospectionEndpoint == "" {
		log.Warn("token introspection endpoint not configured, admin routes are disabled")
	}
	return &AuthMiddleware{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// RequireAuth validates the bearer token and the admin list before calling next
func (auth *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.cfg.IntrospectionEndpoint == "" {
			http.Error(w, "Authentication not configured", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			http.Error(w, "Bearer token required", http.StatusUnauthorized)
			return
		}
		if strings.TrimSpace(token) == "" {
			http.Error(w, "Token cannot be empty", http.StatusUnauthorized)
			return
		}

		active, ident, err := auth.validateToken(r, token)
		if err != nil {
			auth.log.Error("token validation failed", "error", err)
			http.Error(w, "Token validation failed", http.StatusInternalServerError)
			return
		}
		if !active {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if !auth.isAdmin(ident) {
			auth.log.Warn("admin access denied",
				"ident", logging.Sanitize(ident),
				"method", r.Method,
				"path", logging.Sanitize(r.URL.Path))
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}

		auth.log.Info("admin request", "ident", logging.Sanitize(ident), "method", r.Method, "path", logging.Sanitize(r.URL.Path))
		next(w, r)
	}
}

// validateToken asks the introspection endpoint about token and returns
// whether it is active and whose it is
func (auth *AuthMiddleware) validateToken(r *http.Request, token string) (bool, string, error) {
	body, err := json.Marshal(TokenIntrospectionRequest{
		IdentityProvider: auth.cfg.IdentityProvider,
		Token:            token,
	})
	if err != nil {
		return false, "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, auth.cfg.IntrospectionEndpoint, bytes.NewReader(body))
	if err != nil {
		return false, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := auth.httpClient.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return false, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("introspection endpoint returned status %d", resp.StatusCode)
	}

	var introspection TokenIntrospectionResponse
	if err := json.Unmarshal(respBody, &introspection); err != nil {
		return false, "", fmt.Errorf("failed to parse response: %w", err)
	}
	if introspection.Error != "" {
		return false, "", fmt.Errorf("introspection error: %s", introspection.Error)
	}

	for _, name := range identityClaims {
		if ident, ok := introspection.Claims[name].(string); ok && ident != "" {
			return introspection.Active, ident, nil
		}
	}
	return introspection.Active, "", nil
}

func (auth *AuthMiddleware) isAdmin(ident string) bool {
	return ident != "" && slices.Contains(auth.cfg.Admins, ident)
}
