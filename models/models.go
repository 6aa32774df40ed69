package models

// ConvertRequest is the JSON/form body for base64 uploads. Multipart uploads
// use the "file" field instead of FileBase64/FileName.
type ConvertRequest struct {
	FileBase64            string `json:"file_base64,omitempty" form:"file_base64"`
	FileName              string `json:"file_name,omitempty" form:"file_name"`
	AdditionalInstruction string `json:"additional_instruction,omitempty" form:"additional_instruction"`
	GCSBucket             string `json:"gcs_bucket,omitempty" form:"gcs_bucket"`
	GCSFolderPath         string `json:"gcs_folder_path,omitempty" form:"gcs_folder_path"`
	SignedURLExpiration   int    `json:"signed_url_expiration,omitempty" form:"signed_url_expiration"`
}

type ConvertResponse struct {
	RunID                    string          `json:"run_id"`
	OriginalFilename         string          `json:"original_filename"`
	Success                  bool            `json:"success"`
	Attempts                 int             `json:"attempts"`
	RowCount                 int             `json:"row_count,omitempty"`
	ColumnCount              int             `json:"column_count,omitempty"`
	Columns                  []string        `json:"columns,omitempty"`
	Preview                  [][]string      `json:"preview,omitempty"`
	ValidationWarning        string          `json:"validation_warning,omitempty"`
	GCSPath                  string          `json:"gcs_path,omitempty"`
	SignedURL                string          `json:"signed_url,omitempty"`
	SignedURLExpirationSecs  int             `json:"signed_url_expiration_seconds,omitempty"`
	GCSError                 string          `json:"gcs_error,omitempty"`
	SignedURLError           string          `json:"signed_url_error,omitempty"`
	AttemptErrors            []AttemptError  `json:"attempt_errors,omitempty"`
}

// AttemptError records why one synthesize->execute->validate cycle failed.
// Phase is "synthesis", "execution" or "validation".
type AttemptError struct {
	Attempt int    `json:"attempt"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

// RunRecord is the persisted summary of a conversion run.
type RunRecord struct {
	RunID       string         `json:"run_id"`
	Filename    string         `json:"filename"`
	Status      string         `json:"status"` // "succeeded" or "failed"
	Attempts    int            `json:"attempts"`
	RowCount    int            `json:"row_count,omitempty"`
	ColumnCount int            `json:"column_count,omitempty"`
	GCSPath     string         `json:"gcs_path,omitempty"`
	SignedURL   string         `json:"signed_url,omitempty"`
	Errors      []AttemptError `json:"errors,omitempty"`
	CreatedAt   string         `json:"created_at"`
}
