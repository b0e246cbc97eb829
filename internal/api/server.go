package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	jwtware "github.com/gofiber/jwt/v3"

	"github.com/pujanggalabs/puspagen/internal/auth"
	"github.com/pujanggalabs/puspagen/internal/config"
	"github.com/pujanggalabs/puspagen/internal/mailer"
	"github.com/pujanggalabs/puspagen/internal/poem"
	"github.com/pujanggalabs/puspagen/internal/store"
)

type Server struct {
	app    *fiber.App
	cfg    *config.Config
	store  store.Store
	mailer mailer.Notifier
	poems  *poem.Service
	logger *slog.Logger
}

func NewServer(cfg *config.Config, st store.Store, notifier mailer.Notifier, poems *poem.Service) *Server {
	app := fiber.New()

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status}\n",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Server.MaxRequests,
		Expiration: cfg.Server.RequestTimeout,
	}))

	server := &Server{
		app:    app,
		cfg:    cfg,
		store:  st,
		mailer: notifier,
		poems:  poems,
		logger: slog.Default(),
	}

	// Routes
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	// Public routes
	s.app.Get("/", s.handleIndex)
	s.app.Post("/", s.handleRequestToken)
	s.app.Post("/login", s.handleLogin)
	s.app.Get("/logout", s.handleLogout)

	// Protected routes
	gate := s.sessionGate()
	s.app.Use("/generate", gate)
	s.app.Use("/history", gate)
	s.app.Get("/generate", s.handleGenerateForm)
	s.app.Post("/generate", s.handleGenerate)
	s.app.Get("/history", s.handleHistory)
}

// sessionGate verifies the session cookie before protected handlers run.
// Anything short of a valid, unexpired session redirects to the entry page;
// there is never an error body.
func (s *Server) sessionGate() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  []byte(s.cfg.Session.Secret),
		TokenLookup: "cookie:" + auth.SessionCookie,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Redirect("/", fiber.StatusSeeOther)
		},
	})
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown stops accepting new connections and waits for active requests,
// so an in-flight generation finishes its persist and credit spend.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
