package handlers

import (
	"net/http"
	"strconv"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	catalogService *services.CatalogService
}

func NewSessionHandler(catalogService *services.CatalogService) *SessionHandler {
	return &SessionHandler{catalogService: catalogService}
}

type JoinSessionRequest struct {
	SessionID uint  `json:"session_id" binding:"required" example:"1"`
	PartyID   *uint `json:"party_id,omitempty" example:"2"`
}

type CreateSessionRequest struct {
	GameKey     string `json:"game_key" binding:"required" example:"vrai-faux"`
	Title       string `json:"title" binding:"required,min=1,max=255" example:"Session du vendredi"`
	Description string `json:"description" example:"Culture generale"`
	Category    string `json:"category" example:"histoire"`
	IsPaid      bool   `json:"is_paid" example:"false"`
	PriceCFA    int    `json:"price_cfa" example:"500"`
}

type CreatePartyRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100" example:"Finale"`
	MinScore *int   `json:"min_score,omitempty" example:"50"`
	MinRank  *int   `json:"min_rank,omitempty" example:"10"`
}

// ListSessions godoc
// @Summary      List sessions
// @Tags         sessions
// @Produce      json
// @Param        game_key query string false "Game key"
// @Success      200 {array} services.SessionSummary
// @Router       /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.catalogService.ListSessions(c.Query("game_key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// ListAvailableSessions godoc
// @Summary      List sessions the caller has not joined yet
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        game_key query string false "Game key"
// @Success      200 {array} services.SessionSummary
// @Router       /api/v1/sessions/available [get]
func (h *SessionHandler) ListAvailableSessions(c *gin.Context) {
	sessions, err := h.catalogService.ListAvailableSessions(currentUserID(c), c.Query("game_key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// ListMySessions godoc
// @Summary      List joined sessions with revealed scores
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.MySessionSummary
// @Router       /api/v1/sessions/mine [get]
func (h *SessionHandler) ListMySessions(c *gin.Context) {
	sessions, err := h.catalogService.ListMySessions(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// ListParties godoc
// @Summary      List parties of a session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} models.Party
// @Router       /api/v1/sessions/{id}/parties [get]
func (h *SessionHandler) ListParties(c *gin.Context) {
	sessionID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	parties, err := h.catalogService.ListParties(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parties)
}

// JoinSession godoc
// @Summary      Join a session
// @Description  Enroll into a party of the session; paid sessions debit the balance once
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body JoinSessionRequest true "Join data"
// @Success      200 {object} models.Party
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions/join [post]
func (h *SessionHandler) JoinSession(c *gin.Context) {
	var req JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	party, err := h.catalogService.JoinSession(currentUserID(c), req.SessionID, req.PartyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, party)
}

// CreateSession godoc
// @Summary      Create a session
// @Description  Create a session and its initial party
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateSessionRequest true "Session data"
// @Success      201 {object} models.GameSession
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.catalogService.CreateSession(services.CreateSessionInput{
		GameKey:     req.GameKey,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsPaid:      req.IsPaid,
		PriceCFA:    req.PriceCFA,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CreateParty godoc
// @Summary      Create a party in a session
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body CreatePartyRequest true "Party data"
// @Success      201 {object} models.Party
// @Router       /api/v1/admin/sessions/{id}/parties [post]
func (h *SessionHandler) CreateParty(c *gin.Context) {
	sessionID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	var req CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	party, err := h.catalogService.CreateParty(services.CreatePartyInput{
		SessionID: sessionID,
		Name:      req.Name,
		MinScore:  req.MinScore,
		MinRank:   req.MinRank,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, party)
}

// DeleteSession godoc
// @Summary      Delete a session
// @Description  Refused while any run of the session is in progress
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} MessageResponse
// @Router       /api/v1/admin/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	if err := h.catalogService.DeleteSession(sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "session deleted"})
}

// DeleteParty godoc
// @Summary      Delete a non-initial party
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {object} MessageResponse
// @Router       /api/v1/admin/parties/{id} [delete]
func (h *SessionHandler) DeleteParty(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	if err := h.catalogService.DeleteParty(partyID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "party deleted"})
}

// GetPartyPlayers godoc
// @Summary      List party members with cumulative scores
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Party ID"
// @Success      200 {array} services.PartyPlayerEntry
// @Router       /api/v1/admin/parties/{id}/players [get]
func (h *SessionHandler) GetPartyPlayers(c *gin.Context) {
	partyID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
		return
	}

	players, err := h.catalogService.GetPartyPlayers(partyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
