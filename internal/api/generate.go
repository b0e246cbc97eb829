package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pujanggalabs/puspagen/internal/models"
	"github.com/pujanggalabs/puspagen/internal/poem"
)

// account re-reads the session's account so the credit shown and spent is
// current, not whatever it was at login.
func (s *Server) account(c *fiber.Ctx) (*models.Account, error) {
	sess, ok := s.session(c)
	if !ok {
		return nil, nil
	}
	return s.store.FindByID(c.Context(), sess.UserID)
}

func (s *Server) handleGenerateForm(c *fiber.Ctx) error {
	acct, err := s.account(c)
	if err != nil {
		s.logger.Error("Account lookup failed", "error", err)
	}
	if acct == nil || acct.Credit <= 0 {
		return s.render(c, "quota.html", fiber.Map{"Contact": s.cfg.App.ContactEmail})
	}
	return s.render(c, "generate.html", fiber.Map{"Remaining": acct.Credit})
}

func (s *Server) handleGenerate(c *fiber.Ctx) error {
	acct, err := s.account(c)
	if err != nil {
		s.logger.Error("Account lookup failed", "error", err)
	}
	if acct == nil || acct.Credit <= 0 {
		return s.render(c, "quota.html", fiber.Map{"Contact": s.cfg.App.ContactEmail})
	}

	genre := c.FormValue("genre")
	if genre == "" {
		genre = "puisi"
	}
	title := strings.TrimSpace(c.FormValue("title"))

	result, remaining, err := s.poems.Compose(c.Context(), acct, genre, title)
	switch {
	case errors.Is(err, poem.ErrEmptyTitle):
		return s.render(c, "generate.html", fiber.Map{
			"Remaining": remaining,
			"Flashes":   []Flash{{Category: "danger", Message: "Masukkan judul atau tema."}},
		})
	case errors.Is(err, poem.ErrNoCredit):
		return s.render(c, "quota.html", fiber.Map{"Contact": s.cfg.App.ContactEmail})
	case errors.Is(err, poem.ErrBusy):
		return s.render(c, "generate.html", fiber.Map{
			"Remaining": remaining,
			"Flashes":   []Flash{{Category: "danger", Message: "Pembuatan sebelumnya masih berjalan. Coba lagi sebentar."}},
		})
	case err != nil:
		s.logger.Error("Generation failed", "user_id", acct.ID, "error", err)
		return s.render(c, "generate.html", fiber.Map{
			"Remaining": remaining,
			"Flashes":   []Flash{{Category: "danger", Message: "Terjadi kesalahan. Coba lagi."}},
		})
	}

	return s.render(c, "generate.html", fiber.Map{
		"Remaining": remaining,
		"Result":    result,
	})
}
