package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GET /api/foods?query=...&limit=...
func (s *Server) searchFoods(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		respBadRequest(c, "query is required")
		return
	}
	limit := 25
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respBadRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	foods, err := s.foods.Search(c.Request.Context(), query, limit)
	if err != nil {
		respServerError(c, err)
		return
	}
	respOK(c, foods)
}

// GET /api/foods/:id/servings
func (s *Server) listServings(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		respUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	food, err := s.catalog.GetFood(c.Request.Context(), id)
	if err != nil {
		respServerError(c, err)
		return
	}
	if food == nil {
		respNotFound(c, "food not found")
		return
	}
	servings, err := s.catalog.ListServings(c.Request.Context(), id)
	if err != nil {
		respServerError(c, err)
		return
	}
	respOK(c, gin.H{"food": food, "servings": servings})
}
