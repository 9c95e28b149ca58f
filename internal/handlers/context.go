package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/middleware"
	"github.com/BruksfildServices01/turnos/internal/session"
)

func businessID(c *gin.Context) uint {
	if s, ok := session.From(c); ok {
		return s.BusinessID()
	}
	return c.GetUint(middleware.ContextBusinessID)
}

func userID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
