// This is a **mock authentication service**. It issues the JWT that carries
// the admin name shown on the employee pages; it does not check passwords.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gartstein/employees/internal/employee/auth"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	defaultPort    = "8081"       // Default port for the authentication service
	defaultSecret  = "jwt_secret" // Secret for signing JWT
	defaultName    = "admin"
	tokenTTL       = 24 * time.Hour
	maxNameRunes   = 64
	readHeaderWait = 10 * time.Second
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

type tokenHandler struct {
	secret     string
	cookieName string
	logger     *zap.Logger
}

// ServeHTTP generates a JWT for the requested admin name, returns it as JSON
// and stores it in the admin cookie.
func (h *tokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = defaultName
	}
	if len([]rune(name)) > maxNameRunes {
		http.Error(w, "name is too long", http.StatusBadRequest)
		return
	}

	token, err := auth.GenerateToken(name, h.secret, tokenTTL)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.Error(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(tokenTTL),
	})
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TokenResponse{Token: token}); err != nil {
		h.logger.Error("Failed to encode token", zap.Error(err))
	}
	h.logger.Info("Token issued", zap.String("admin_name", name))
}

func newRouter(h http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Method(http.MethodGet, "/token", h)
	return r
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	port := getenv("AUTH_PORT", defaultPort)
	h := &tokenHandler{
		secret:     getenv("JWT_SECRET", defaultSecret),
		cookieName: getenv("ADMIN_COOKIE", auth.DefaultCookieName),
		logger:     logger.Named("authentication"),
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(h),
		ReadHeaderTimeout: readHeaderWait,
	}
	logger.Info("Authentication service running", zap.String("port", port))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("Authentication service stopped", zap.Error(err))
	}
}
