package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseDateRange reads start_date and end_date query parameters. Both default
// to today; a malformed date is an error, range ordering is the services'
// concern.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	today := time.Now().Format(dateLayout)

	start, err := time.ParseInLocation(dateLayout, c.DefaultQuery("start_date", today), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, c.DefaultQuery("end_date", today), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return start, end, nil
}

func respondData(c *gin.Context, data interface{}, meta gin.H) {
	body := gin.H{"success": true, "data": data}
	for k, v := range meta {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
