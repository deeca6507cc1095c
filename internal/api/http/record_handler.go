package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"prospector/internal/store"
)

// @Summary List saved games
// @Description Saved game records, newest first
// @Tags Record
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /records [get]
func ListRecordsHandler(recorder *store.GameRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := recorder.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list records"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
	}
}

// @Summary Load a saved game
// @Description Game info and full move history of one record
// @Tags Record
// @Produce json
// @Param name path string true "Record name"
// @Success 200 {object} map[string]interface{}
// @Router /records/{name} [get]
func GetRecordHandler(recorder *store.GameRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		replay, err := recorder.LoadReplay(c.Param("name"))
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load record"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"replay": replay})
	}
}

// @Summary Delete a saved game
// @Tags Record
// @Produce json
// @Param name path string true "Record name"
// @Success 200 {object} map[string]interface{}
// @Router /records/{name} [delete]
func DeleteRecordHandler(recorder *store.GameRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := recorder.Delete(c.Param("name")); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete record"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
