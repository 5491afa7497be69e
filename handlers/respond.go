package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// All endpoints speak the same envelope: status is the sole success
// discriminator the dashboard relies on; meta carries pagination and
// per-resource flags.

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message, "data": data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": message, "data": data})
}

func respondList(c *gin.Context, data interface{}, meta gin.H) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data, "meta": meta})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// pageParams reads page/per_page from the query string with sane bounds.
func pageParams(c *gin.Context) (page, perPage, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return page, perPage, (page - 1) * perPage
}

func listMeta(page, perPage int, total int64) gin.H {
	return gin.H{
		"current_page": page,
		"per_page":     perPage,
		"total":        total,
		"last_page":    int(math.Ceil(float64(total) / float64(perPage))),
	}
}

// sortClause whitelists sortable columns per resource so the query string
// cannot inject arbitrary SQL.
func sortClause(c *gin.Context, allowed map[string]bool, fallback string) string {
	sort := c.DefaultQuery("sort", fallback)
	if !allowed[sort] {
		sort = fallback
	}
	order := c.DefaultQuery("order", "asc")
	if order != "asc" && order != "desc" {
		order = "asc"
	}
	return sort + " " + order
}
