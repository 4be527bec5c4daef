package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// AIHandler exposes the assistant and the user summaries.
type AIHandler struct {
	assistant ports.AssistantService
	summaries ports.SummaryService
}

func NewAIHandler(assistant ports.AssistantService, summaries ports.SummaryService) *AIHandler {
	return &AIHandler{assistant: assistant, summaries: summaries}
}

// Ask handles POST /ai/ask. The exchange is logged only when the model
// produced a usable reply.
//
// @Summary      Ask the assistant
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      askRequest  true  "Free-form prompt"
// @Success      200   {object}  askResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /ai/ask [post]
func (h *AIHandler) Ask(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	res := h.assistant.Ask(ctx, userID, req.Prompt)
	if !res.Succeeded {
		return res.Err
	}

	if _, err := h.assistant.RecordExchange(ctx, userID, req.Prompt, res.Reply); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, askResponse{Response: res.Reply})
}

// LatestSummary handles GET /ai/summary.
//
// @Summary      Latest summary
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Failure      404  {object}  errorResponse
// @Router       /ai/summary [get]
func (h *AIHandler) LatestSummary(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	s, err := h.summaries.Latest(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(s))
}

// GenerateSummary handles POST /ai/summary and runs the generator in the
// request instead of the background queue.
//
// @Summary      Generate a summary now
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  summaryResponse
// @Failure      422  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /ai/summary [post]
func (h *AIHandler) GenerateSummary(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	res := h.summaries.Generate(c.Request().Context(), userID)
	if !res.Succeeded {
		return res.Err
	}
	return c.JSON(http.StatusCreated, toSummaryResponse(res.Summary))
}
