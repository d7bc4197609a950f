package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polyglottos/dataport/internal/importer"
)

type ImportController struct {
	importService *importer.Service
}

func NewImportController(importService *importer.Service) *ImportController {
	return &ImportController{importService: importService}
}

type JSONImportRequest struct {
	Strategy     string          `json:"strategy"`
	ValidateOnly bool            `json:"validateOnly"`
	Data         json.RawMessage `json:"data" binding:"required"`
}

// ImportJSON accepts an export document wrapped with import options and
// runs it through the import pipeline.
func (ctrl *ImportController) ImportJSON(c *gin.Context) {
	var req JSONImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := ctrl.importService.ImportJSON(c.Request.Context(), req.Data, importer.Options{
		MergeStrategy: importer.MergeStrategy(req.Strategy),
		ValidateOnly:  req.ValidateOnly,
	})
	c.IndentedJSON(outcomeStatus(outcome), outcome)
}

// ImportCSV accepts a multipart upload ("csv_file") of records of a
// single type ("type" form value) plus an optional merge strategy.
func (ctrl *ImportController) ImportCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("csv_file")
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "no CSV file provided"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "failed to read CSV file"})
		return
	}

	recordType := importer.RecordType(c.PostForm("type"))
	switch recordType {
	case importer.RecordTypeUsers, importer.RecordTypeProgress, importer.RecordTypeSettings:
	default:
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "type must be one of users, progress, settings"})
		return
	}

	outcome := ctrl.importService.ImportCSV(c.Request.Context(), string(content), recordType, importer.Options{
		MergeStrategy: importer.MergeStrategy(c.PostForm("strategy")),
	})
	c.IndentedJSON(outcomeStatus(outcome), outcome)
}

// Validate runs the pipeline in validate-only mode so clients can
// preview issues without writing anything.
func (ctrl *ImportController) Validate(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	outcome := ctrl.importService.ImportJSON(c.Request.Context(), data, importer.Options{ValidateOnly: true})
	c.IndentedJSON(outcomeStatus(outcome), outcome)
}

func outcomeStatus(outcome importer.Outcome) int {
	if outcome.Success {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}
