package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/tutorialhub-backend/internal/http/response"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

func reqDBC(c *gin.Context) dbctx.Context {
	return dbctx.New(c.Request.Context())
}

// uuidParam writes a 400 and returns false when the path param is not a uuid.
func uuidParam(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, code, fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, def, max int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}
