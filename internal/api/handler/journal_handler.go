package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

type JournalHandler struct {
	service ports.JournalService
}

func NewJournalHandler(service ports.JournalService) *JournalHandler {
	return &JournalHandler{service: service}
}

// Create handles POST /journal.
//
// @Summary      Add a journal entry
// @Tags         journal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      journalRequest  true  "Wellbeing score and optional note"
// @Success      201   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /journal [post]
func (h *JournalHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req journalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Create(c.Request().Context(), userID, *req.Score, req.Note); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, statusResponse{Status: "success"})
}

// List handles GET /journal and returns the five most recent entries.
//
// @Summary      Recent journal entries
// @Tags         journal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  journalsResponse
// @Failure      401  {object}  errorResponse
// @Router       /journal [get]
func (h *JournalHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	journals, err := h.service.ListRecent(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, journalsResponse{Message: "Journals fetched", Journals: toJournalItems(journals)})
}

// Delete handles DELETE /journal/:id. Only the owner may delete an entry.
//
// @Summary      Delete a journal entry
// @Tags         journal
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Journal id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /journal/{id} [delete]
func (h *JournalHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Journal entry deleted"})
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
