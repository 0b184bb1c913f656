package handlers

import (
	"github.com/gofiber/fiber/v2"

	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// HandleMatch handles POST /match
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	provider, ok := optionalProvider(req.Provider)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Unknown provider: "+req.Provider)
	}

	result := h.matchService.Match(c.UserContext(), req.Candidate, req.Job, provider)
	return c.JSON(result)
}

// HandleBatchMatch handles POST /match/batch
func (h *MatchHandler) HandleBatchMatch(c *fiber.Ctx) error {
	var req models.BatchMatchRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	provider, ok := optionalProvider(req.Provider)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Unknown provider: "+req.Provider)
	}

	items := make([]services.BatchMatchItem, 0, len(req.Candidates))
	for _, candidate := range req.Candidates {
		itemProvider, ok := optionalProvider(candidate.Provider)
		if !ok {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown provider: "+candidate.Provider)
		}
		items = append(items, services.BatchMatchItem{
			CandidateID: candidate.CandidateID,
			Candidate:   candidate.Candidate,
			Provider:    itemProvider,
		})
	}

	entries := h.matchService.BatchMatch(c.UserContext(), req.Job, items, provider)

	response := make([]models.BatchMatchResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, models.BatchMatchResponse{
			CandidateID: entry.CandidateID,
			Result:      entry.Result,
		})
	}
	return c.JSON(response)
}

// optionalProvider accepts an empty name as "use the default".
func optionalProvider(name string) (services.ProviderTag, bool) {
	if name == "" {
		return "", true
	}
	return services.ParseProviderTag(name)
}
