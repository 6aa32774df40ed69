package handlers

import (
	"log"
	"net/http"

	"jsonl2csv/db"

	"github.com/gin-gonic/gin"
)

// ListRunsHandler lists all conversion runs
// @Summary      List conversion runs
// @Description  Returns all persisted conversion run records, newest first
// @Tags         Runs
// @Produce      json
// @Success      200  {array}   models.RunRecord
// @Failure      500  {object}  map[string]string  "Internal server error"
// @Router       /api/conversions [get]
func (h *Handlers) ListRunsHandler(c *gin.Context) {
	records, err := h.db.ListRuns()
	if err != nil {
		log.Printf("[RUNS] Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetRunHandler returns one conversion run
// @Summary      Get a conversion run
// @Description  Returns the record of a single conversion run by its run id
// @Tags         Runs
// @Produce      json
// @Param        run_id  path      string  true  "Run ID"
// @Success      200     {object}  models.RunRecord
// @Failure      404     {object}  map[string]string  "Run not found"
// @Failure      500     {object}  map[string]string  "Internal server error"
// @Router       /api/conversions/{run_id} [get]
func (h *Handlers) GetRunHandler(c *gin.Context) {
	runID := c.Param("run_id")

	if record, found := h.cache.GetRun(runID); found {
		c.JSON(http.StatusOK, record)
		return
	}

	record, err := h.db.GetRun(runID)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		log.Printf("[RUNS] Failed to load run %s: %v", runID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run record"})
		return
	}

	h.cache.SetRun(record)
	c.JSON(http.StatusOK, record)
}
