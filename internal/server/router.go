package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/handlers"
	"github.com/harentsoaR/apoio-comunitario-api/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the router wires into routes.
type Deps struct {
	Handler                  *handlers.Handler
	Tokens                   middleware.TokenValidator
	Finder                   middleware.UsuarioFinder
	RequiredSpecializationID uint
	CORSAllowedOrigins       []string
	TrustedProxies           []string
	RateLimiter              *middleware.RateLimiter
	Logger                   *zap.Logger
}

// NewRouter wires gin routes and middleware. Forwarded client addresses are
// honoured only from TrustedProxies; with none, the socket address is used.
func NewRouter(d Deps) (*gin.Engine, error) {
	h := d.Handler

	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(cors.New(corsConfig(d.CORSAllowedOrigins)))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", d.RateLimiter.Handler(), h.Login)
	}

	// Provisioning is open: this is how accounts get created.
	r.POST("/usuarios/maes", h.CreateMae)
	r.POST("/usuarios/psi", h.CreateProfissional)

	selfOrGated := middleware.RequireSelfOrSpecialization(d.Finder, d.RequiredSpecializationID, "id")

	authenticated := r.Group("/")
	authenticated.Use(middleware.Authenticate(d.Tokens))
	{
		authenticated.GET("/usuarios", h.ListUsuarios)
		authenticated.GET("/usuarios/me", h.GetCurrentUser)
		authenticated.GET("/usuarios/:id", h.GetUsuario)
		authenticated.PUT("/usuarios/:id", selfOrGated, h.UpdateUsuario)
		authenticated.DELETE("/usuarios/:id", selfOrGated, h.DeleteUsuario)
		authenticated.GET("/usuarios/:id/acompanhamentos", h.ListAcompanhamentosDoUsuario)

		authenticated.GET("/acompanhamentos", h.ListAcompanhamentos)
		authenticated.GET("/acompanhamentos/:id", h.GetAcompanhamento)
	}

	gated := authenticated.Group("/")
	gated.Use(middleware.RequireSpecialization(d.Finder, d.RequiredSpecializationID))
	{
		gated.POST("/acompanhamentos", h.CreateAcompanhamento)
		gated.PATCH("/acompanhamentos/:id/encerrar", h.CloseAcompanhamento)
		gated.GET("/auditoria", h.ListAuditoria)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
