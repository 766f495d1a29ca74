package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorResponse is the error body shape clients already consume:
// {"detail": "<message>"}.
type errorResponse struct {
	Detail string `json:"detail"`
}

// JSONError sends the failure message under the given status.
func JSONError(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, errorResponse{Detail: msg})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, msg)
}

func BadGateway(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadGateway, msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, msg)
}
