package handlers

import (
	"net/http"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// respondError maps service error kinds onto HTTP statuses. Store
// failures collapse into a generic 502 so their detail never reaches a
// caller.
func respondError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindValidation:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case services.KindAuthorization:
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case services.KindStateGuard, services.KindConflict:
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "storage unavailable"})
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
