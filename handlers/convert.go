package handlers

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jsonl2csv/models"
	"jsonl2csv/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConvertHandler converts an uploaded JSONL file to CSV
// @Summary      Convert JSONL to CSV
// @Description  Upload a JSONL file (multipart "file" field, or JSON body with file_base64 and file_name). AI-generated parsing code is executed and validated, with up to MAX_RETRY_ATTEMPTS repair cycles. On success the CSV is uploaded to GCS and a signed URL is returned.
// @Tags         Convert
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        file                    formData  file                   false  "JSONL file upload"
// @Param        request                 body      models.ConvertRequest  false  "Base64 request (alternative to file upload)"
// @Success      200  {object}  models.ConvertResponse  "Conversion succeeded"
// @Failure      400  {object}  map[string]string       "Invalid request"
// @Failure      422  {object}  models.ConvertResponse  "All attempts failed"
// @Failure      500  {object}  map[string]string       "Internal server error"
// @Router       /api/convert [post]
func (h *Handlers) ConvertHandler(c *gin.Context) {
	runID := newRunID()
	log.Printf("[CONVERT] Run ID: %s", runID)

	var req models.ConvertRequest
	var inputPath, filename string

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	} else {
		// Form fields may accompany a multipart upload.
		_ = c.ShouldBind(&req)
	}

	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader.Filename != "" {
		filename = filepath.Base(fileHeader.Filename)
		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		defer src.Close()

		inputPath, err = saveTempInput(h.cfg.WorkDir, src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
			return
		}
	} else if req.FileBase64 != "" {
		if req.FileName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file_name is required when using file_base64"})
			return
		}
		filename = filepath.Base(req.FileName)

		content, err := base64.StdEncoding.DecodeString(req.FileBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Error decoding base64 content: %v", err)})
			return
		}

		inputPath, err = saveTempInput(h.cfg.WorkDir, strings.NewReader(string(content)))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save decoded file"})
			return
		}
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided. Please provide either a file upload or base64 encoded file content with filename."})
		return
	}
	defer os.Remove(inputPath)

	sample, err := readSample(inputPath, h.cfg.SampleLines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read input file"})
		return
	}
	if sample == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input file is empty"})
		return
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	outputPath := filepath.Join(h.cfg.WorkDir, fmt.Sprintf("%s_%s.csv", runID, stem))
	defer os.Remove(outputPath)

	job := service.Job{
		InputPath:   inputPath,
		OutputPath:  outputPath,
		Sample:      sample,
		Instruction: req.AdditionalInstruction,
		MaxAttempts: h.cfg.MaxAttempts,
	}

	outcome, err := h.converter.Convert(c.Request.Context(), job)
	if err != nil {
		log.Printf("[CONVERT] Run %s aborted: %v", runID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Conversion aborted: %v", err)})
		return
	}

	response := models.ConvertResponse{
		RunID:            runID,
		OriginalFilename: filename,
		Success:          outcome.Succeeded,
		Attempts:         outcome.Attempts,
	}

	if !outcome.Succeeded {
		response.AttemptErrors = outcome.Errors
		h.storeRun(runID, filename, &response)
		c.JSON(http.StatusUnprocessableEntity, response)
		return
	}

	response.RowCount = outcome.Validation.RowCount
	response.ColumnCount = len(outcome.Validation.Columns)
	response.Columns = outcome.Validation.Columns
	response.Preview = outcome.Validation.Preview
	response.ValidationWarning = outcome.Validation.Warning

	h.uploadArtifact(c, runID, stem, outputPath, &req, &response)
	h.storeRun(runID, filename, &response)

	log.Printf("[CONVERT] Run %s succeeded: %d rows, %d columns, %d attempt(s)",
		runID, response.RowCount, response.ColumnCount, response.Attempts)
	c.JSON(http.StatusOK, response)
}

// uploadArtifact pushes the CSV to object storage and issues a signed URL.
// Storage failures are reported in the response without failing the
// conversion itself.
func (h *Handlers) uploadArtifact(c *gin.Context, runID, stem, outputPath string, req *models.ConvertRequest, response *models.ConvertResponse) {
	if h.store == nil {
		return
	}

	bucket := req.GCSBucket
	if bucket == "" {
		bucket = h.cfg.GCS.Bucket
	}

	folder := req.GCSFolderPath
	if folder == "" {
		folder = fmt.Sprintf("%s/%s/", runID, h.cfg.GCS.DefaultFolder)
	}
	if !strings.HasSuffix(folder, "/") {
		folder += "/"
	}
	objectPath := folder + stem + ".csv"

	gsPath, err := h.store.Upload(c.Request.Context(), bucket, outputPath, objectPath)
	if err != nil {
		log.Printf("[CONVERT] Run %s upload failed: %v", runID, err)
		response.GCSError = err.Error()
		return
	}
	response.GCSPath = gsPath

	expiration := h.cfg.GCS.SignedURLExpiration
	if req.SignedURLExpiration > 0 {
		expiration = time.Duration(req.SignedURLExpiration) * time.Second
	}

	url, err := h.store.SignedURL(bucket, objectPath, expiration)
	if err != nil {
		log.Printf("[CONVERT] Run %s signed URL failed: %v", runID, err)
		response.SignedURLError = err.Error()
		return
	}
	response.SignedURL = url
	response.SignedURLExpirationSecs = int(expiration / time.Second)
}

func (h *Handlers) storeRun(runID, filename string, response *models.ConvertResponse) {
	status := "failed"
	if response.Success {
		status = "succeeded"
	}
	record := &models.RunRecord{
		RunID:       runID,
		Filename:    filename,
		Status:      status,
		Attempts:    response.Attempts,
		RowCount:    response.RowCount,
		ColumnCount: response.ColumnCount,
		GCSPath:     response.GCSPath,
		SignedURL:   response.SignedURL,
		Errors:      response.AttemptErrors,
		CreatedAt:   time.Now().Format(time.RFC3339),
	}

	if err := h.db.StoreRun(record); err != nil {
		log.Printf("[CONVERT] Failed to store run record %s: %v", runID, err)
		return
	}
	h.cache.SetRun(record)
}

func newRunID() string {
	return fmt.Sprintf("%s_%s", time.Now().Format("20060102150405"), uuid.New().String()[:8])
}

func saveTempInput(workDir string, src io.Reader) (string, error) {
	tmp, err := os.CreateTemp(workDir, "input-*.jsonl")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// readSample returns up to maxLines non-empty leading lines of the input,
// used as the schema sample in the generation prompt.
func readSample(inputPath string, maxLines int) (string, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() && len(lines) < maxLines {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
