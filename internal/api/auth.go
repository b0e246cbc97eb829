package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtv4 "github.com/golang-jwt/jwt/v4"

	"github.com/pujanggalabs/puspagen/internal/auth"
)

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return s.render(c, "index.html", nil)
}

// handleRequestToken validates the submitted email, finds or creates the
// account, and mails its token. A returning email gets its existing token
// again; tokens are never rotated.
func (s *Server) handleRequestToken(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	if !auth.ValidEmail(email) {
		return s.render(c, "index.html", fiber.Map{
			"Flashes": []Flash{{Category: "danger", Message: "Email tidak valid atau terdeteksi sebagai email sekali pakai."}},
		})
	}

	acct, err := s.store.FindByEmail(c.Context(), email)
	if err != nil {
		s.logger.Error("Account lookup failed", "email", email, "error", err)
	}

	var token string
	if acct != nil {
		token = acct.Token
	} else {
		token = auth.NewToken()
		if _, err := s.store.CreateAccount(c.Context(), email, token, s.cfg.App.InitialCredit); err != nil {
			s.logger.Error("Account creation failed", "email", email, "error", err)
		}
	}

	if err := s.mailer.SendToken(email, token); err != nil {
		s.logger.Error("Token delivery failed", "email", email, "error", err)
		return s.render(c, "index.html", fiber.Map{
			"Flashes": []Flash{{Category: "danger", Message: "Gagal mengirim email. Hubungi admin."}},
		})
	}

	return s.render(c, "index.html", fiber.Map{
		"Flashes": []Flash{{Category: "success", Message: "Token telah dikirim ke email Anda."}},
	})
}

// handleLogin compares the submitted token against the stored one, trimmed
// and case-sensitive, and mints the session on a match.
func (s *Server) handleLogin(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	token := strings.TrimSpace(c.FormValue("token"))

	acct, err := s.store.FindByEmail(c.Context(), email)
	if err != nil {
		s.logger.Error("Account lookup failed", "email", email, "error", err)
	}
	if acct == nil {
		setFlash(c, "danger", "Email tidak ditemukan.")
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	storedToken := strings.TrimSpace(acct.Token)
	if token != storedToken {
		setFlash(c, "danger", fmt.Sprintf("Token tidak cocok. (Input: %q, DB: %q)", token, storedToken))
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	signed, err := auth.NewSessionToken(s.cfg.Session.Secret, email, storedToken, acct.ID, s.cfg.Session.TTL)
	if err != nil {
		s.logger.Error("Session minting failed", "email", email, "error", err)
		setFlash(c, "danger", "Gagal membuat sesi. Coba lagi.")
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.cfg.Session.TTL.Seconds()),
		HTTPOnly: true,
	})
	s.logger.Info("User logged in", "email", email, "user_id", acct.ID)
	return c.Redirect("/generate", fiber.StatusSeeOther)
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.Redirect("/", fiber.StatusSeeOther)
}

// session extracts the verified session on a protected route.
func (s *Server) session(c *fiber.Ctx) (auth.Session, bool) {
	token, ok := c.Locals("user").(*jwtv4.Token)
	if !ok {
		return auth.Session{}, false
	}
	return auth.SessionFromToken(token)
}
