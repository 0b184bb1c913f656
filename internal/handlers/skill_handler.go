package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/repositories"
)

type SkillHandler struct {
	skillRepo repositories.SkillScoreRepository
}

func NewSkillHandler(skillRepo repositories.SkillScoreRepository) *SkillHandler {
	return &SkillHandler{
		skillRepo: skillRepo,
	}
}

// HandleGetSkills handles GET /candidates/:id/skills
func (h *SkillHandler) HandleGetSkills(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid candidate ID format")
	}

	scores, err := h.skillRepo.FindByCandidate(c.UserContext(), candidateID)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load skill scores")
	}

	if scores == nil {
		scores = []models.SkillScore{}
	}
	return c.JSON(scores)
}
