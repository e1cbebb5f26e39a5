package handlers

import (
	"net/http"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/services"

	"github.com/gin-gonic/gin"
)

// PlayHandler carries every player-facing game route. None of its
// responses may include a correct answer or an awarded score before the
// owning run is revealed; that gating lives in the services it calls.
type PlayHandler struct {
	runService     *services.RunService
	answerService  *services.AnswerService
	resultsService *services.ResultsService
}

func NewPlayHandler(runService *services.RunService, answerService *services.AnswerService, resultsService *services.ResultsService) *PlayHandler {
	return &PlayHandler{
		runService:     runService,
		answerService:  answerService,
		resultsService: resultsService,
	}
}

type SubmitAnswerRequest struct {
	RunQuestionID uint  `json:"run_question_id" binding:"required" example:"1"`
	Answer        *bool `json:"answer" binding:"required" example:"true"`
}

// ListVisibleRuns godoc
// @Summary      List a party's visible runs
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {array} models.GameRun
// @Router       /api/v1/parties/{id}/runs [get]
func (h *PlayHandler) ListVisibleRuns(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	runs, err := h.runService.ListVisibleRuns(partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRunQuestions godoc
// @Summary      List an open run's questions
// @Description  Question text and point values only, with the caller's answered flags
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Success      200 {array} services.PlayerQuestion
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/runs/{id}/questions [get]
func (h *PlayHandler) GetRunQuestions(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	questions, err := h.answerService.GetRunQuestions(currentUserID(c), runID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetUnansweredQuestions godoc
// @Summary      List questions the caller can still answer
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {array} services.PlayerQuestion
// @Router       /api/v1/parties/{id}/questions [get]
func (h *PlayHandler) GetUnansweredQuestions(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	questions, err := h.answerService.GetUnansweredQuestions(currentUserID(c), partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Accepts one answer per question; the response never carries correctness or score
// @Tags         play
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitAnswerRequest true "Answer data"
// @Success      200 {object} MessageResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/answers [post]
func (h *PlayHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.answerService.SubmitAnswer(currentUserID(c), req.RunQuestionID, *req.Answer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "answer accepted"})
}

// GetMyAnswers godoc
// @Summary      List the caller's answers in a party
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {array} services.MyAnswer
// @Router       /api/v1/parties/{id}/my-answers [get]
func (h *PlayHandler) GetMyAnswers(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	answers, err := h.resultsService.GetMyAnswers(currentUserID(c), partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

// GetMyResults godoc
// @Summary      Per-run results for the caller
// @Description  Revealed runs carry correctness and scores; others are pending
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {object} services.MyResults
// @Router       /api/v1/parties/{id}/my-results [get]
func (h *PlayHandler) GetMyResults(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	results, err := h.resultsService.GetMyResults(currentUserID(c), partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetPartyHistory godoc
// @Summary      Run history of a party
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {array} services.HistoryEntry
// @Router       /api/v1/parties/{id}/history [get]
func (h *PlayHandler) GetPartyHistory(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	history, err := h.resultsService.GetPartyHistory(currentUserID(c), partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetLeaderboard godoc
// @Summary      Per-run leaderboard
// @Description  Available once the run is closed and revealed
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Success      200 {array} services.LeaderboardEntry
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/runs/{id}/leaderboard [get]
func (h *PlayHandler) GetLeaderboard(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	leaderboard, err := h.resultsService.GetLeaderboard(currentUserID(c), runID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaderboard)
}
