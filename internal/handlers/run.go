package handlers

import (
	"net/http"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/services"

	"github.com/gin-gonic/gin"
)

type RunHandler struct {
	runService *services.RunService
}

func NewRunHandler(runService *services.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

type CreateRunRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"Manche 1"`
}

type AddQuestionsRequest struct {
	Questions []services.QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

type SetStartedRequest struct {
	Started *bool `json:"started" binding:"required" example:"true"`
}

type SetVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required" example:"true"`
}

type CloseRunRequest struct {
	Closed *bool `json:"closed" binding:"required" example:"true"`
}

// CreateRun godoc
// @Summary      Create a run in a party
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Param        request body CreateRunRequest true "Run data"
// @Success      201 {object} models.GameRun
// @Router       /api/v1/admin/parties/{id}/runs [post]
func (h *RunHandler) CreateRun(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	run, err := h.runService.CreateRun(partyID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}

// AddQuestions godoc
// @Summary      Add questions to a draft run
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Param        request body AddQuestionsRequest true "Questions"
// @Success      201 {array} services.AdminQuestion
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/runs/{id}/questions [post]
func (h *RunHandler) AddQuestions(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	var req AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	questions, err := h.runService.AddQuestions(runID, req.Questions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, questions)
}

// SetStarted godoc
// @Summary      Start or reset a run
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Param        request body SetStartedRequest true "Target state"
// @Success      200 {object} models.GameRun
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/runs/{id}/started [post]
func (h *RunHandler) SetStarted(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	var req SetStartedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	run, err := h.runService.SetStarted(runID, *req.Started)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// SetVisibility godoc
// @Summary      Publish or hide a run
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Param        request body SetVisibilityRequest true "Target state"
// @Success      200 {object} models.GameRun
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/runs/{id}/visibility [post]
func (h *RunHandler) SetVisibility(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	run, err := h.runService.SetVisibility(runID, *req.Visible)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// CloseRun godoc
// @Summary      Close (reveal) or reopen (re-hide) a run
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Param        request body CloseRunRequest true "Target state"
// @Success      200 {object} models.GameRun
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/runs/{id}/close [post]
func (h *RunHandler) CloseRun(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	var req CloseRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	run, err := h.runService.CloseRun(runID, *req.Closed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRuns godoc
// @Summary      List all runs of a party
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {array} models.GameRun
// @Router       /api/v1/admin/parties/{id}/runs [get]
func (h *RunHandler) ListRuns(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	runs, err := h.runService.ListRuns(partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// ListRunQuestions godoc
// @Summary      List a run's questions with correct answers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Success      200 {array} services.AdminQuestion
// @Router       /api/v1/admin/runs/{id}/questions [get]
func (h *RunHandler) ListRunQuestions(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	questions, err := h.runService.ListRunQuestions(runID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetStatistics godoc
// @Summary      Run statistics
// @Description  Question, answer and player counts for a run
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Success      200 {object} services.RunStatistics
// @Router       /api/v1/admin/runs/{id}/statistics [get]
func (h *RunHandler) GetStatistics(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	stats, err := h.runService.GetStatistics(runID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DeleteRun godoc
// @Summary      Delete a run
// @Description  Refused while the run is in progress
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Run ID"
// @Success      200 {object} MessageResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/runs/{id} [delete]
func (h *RunHandler) DeleteRun(c *gin.Context) {
	runID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}

	if err := h.runService.DeleteRun(runID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "run deleted"})
}

// DeleteQuestion godoc
// @Summary      Delete a question from a draft run
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [delete]
func (h *RunHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	if err := h.runService.DeleteQuestion(questionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}
