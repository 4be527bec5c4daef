package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// TestHandler serves question management and test submission.
type TestHandler struct {
	questions ports.QuestionService
	tests     ports.TestService
}

func NewTestHandler(questions ports.QuestionService, tests ports.TestService) *TestHandler {
	return &TestHandler{questions: questions, tests: tests}
}

// AddQuestion handles POST /test/add-question.
//
// @Summary      Add a test question
// @Tags         testing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      questionRequest  true  "Question text and options"
// @Success      201   {object}  questionCreatedResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /test/add-question [post]
func (h *TestHandler) AddQuestion(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req questionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	opts := make([]domain.Option, 0, len(req.Options))
	for _, o := range req.Options {
		opts = append(opts, domain.Option{Text: o.Text, Points: o.Points})
	}

	q, err := h.questions.Add(c.Request().Context(), ports.AddQuestionInput{
		Role:    role,
		Text:    req.Text,
		Options: opts,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, questionCreatedResponse{Message: "Question added", Question: toQuestionItem(*q)})
}

// Questions handles GET /test/questions.
//
// @Summary      List test questions
// @Tags         testing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  questionsResponse
// @Failure      401  {object}  errorResponse
// @Router       /test/questions [get]
func (h *TestHandler) Questions(c echo.Context) error {
	qs, err := h.questions.List(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]questionItem, 0, len(qs))
	for _, q := range qs {
		items = append(items, toQuestionItem(q))
	}
	return c.JSON(http.StatusOK, questionsResponse{Message: "Questions fetched", Questions: items})
}

// DeleteQuestion handles DELETE /test/question/:id.
//
// @Summary      Delete a test question
// @Tags         testing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Question id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /test/question/{id} [delete]
func (h *TestHandler) DeleteQuestion(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.questions.Delete(c.Request().Context(), role, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Question deleted"})
}

// Submit handles POST /test/submit. The body maps question ids to the
// index of the chosen option.
//
// @Summary      Submit test answers
// @Tags         testing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitRequest  true  "Answers keyed by question id"
// @Success      201   {object}  submitResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /test/submit [post]
func (h *TestHandler) Submit(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.tests.Submit(c.Request().Context(), ports.SubmitTestInput{
		UserID:  userID,
		Role:    role,
		Answers: req.Answers,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, submitResponse{Message: "Result saved", TotalScore: result.TotalScore})
}

// Results handles GET /test/results and its /test-results alias.
//
// @Summary      My test results
// @Tags         testing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  resultsResponse
// @Failure      403  {object}  errorResponse
// @Router       /test/results [get]
func (h *TestHandler) Results(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	results, err := h.tests.Results(c.Request().Context(), userID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resultsResponse{Message: "Results fetched", Results: toResultItems(results)})
}
