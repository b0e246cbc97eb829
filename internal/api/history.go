package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleHistory(c *fiber.Ctx) error {
	sess, ok := s.session(c)
	if !ok {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	creations, err := s.store.ListCreations(c.Context(), sess.UserID, s.cfg.App.HistoryLimit)
	if err != nil {
		s.logger.Error("History lookup failed", "user_id", sess.UserID, "error", err)
	}
	return s.render(c, "history.html", fiber.Map{"Creations": creations})
}
