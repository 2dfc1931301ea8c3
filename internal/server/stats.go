package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cuticulome/internal/stats"
)

const maxTopSpecies = 100

func (s *Server) statistics(c *gin.Context) {
	top := stats.DefaultTopSpecies
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopSpecies {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be an integer between 1 and 100"})
			return
		}
		top = n
	}
	c.JSON(http.StatusOK, stats.Build(s.snapshot.Records(), top, s.publications))
}
