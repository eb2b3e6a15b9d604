package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/input"
	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"

	"github.com/go-chi/httplog"
	"github.com/google/uuid"
)

const (
	maxBodyBytes      = 10 << 20
	defaultJobTimeout = 5 * time.Minute
	requestIDHeader   = "X-Request-ID"
)

type Handler struct {
	intake     input.JobIntake
	validator  *Validator
	log        output.LoggerPort
	jobTimeout time.Duration
}

func NewHandler(intake input.JobIntake, validator *Validator, log output.LoggerPort, jobTimeout time.Duration) *Handler {
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	return &Handler{
		intake:     intake,
		validator:  validator,
		log:        log,
		jobTimeout: jobTimeout,
	}
}

type fillResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	CustomerType string `json:"customer_type,omitempty"`
	JobName      string `json:"job_name,omitempty"`
	JobNumber    string `json:"job_number,omitempty"`
	JobID        string `json:"job_id,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type welcomeResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
	Usage     string            `json:"usage"`
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, welcomeResponse{
		Message: "Job intake automation API",
		Status:  "running",
		Endpoints: map[string]string{
			"health_check": "GET /health",
			"fill_form":    "POST /fill-form (JSON body or .json file upload)",
		},
		Usage: "POST a job payload to /fill-form to create the job on the intake form",
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Message: "Intake API is running"})
}

func (h *Handler) FillForm(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set(requestIDHeader, requestID)
	httplog.LogEntrySetField(r.Context(), "request_id", requestID)
	log := h.log.WithField("request_id", requestID)

	doc, err := readDocument(w, r)
	if err != nil {
		log.Warn("Rejected request body", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	payload, err := h.validator.Validate(doc)
	if err != nil {
		log.Warn("Rejected payload", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customerType := payload.String(entity.SectionCustomerInformation, "customerType")
	jobName := payload.String(entity.SectionGeneralInformation, "jobName")
	if jobName == "" {
		jobName = "N/A"
	}
	log.Info("Starting intake job", "customer_type", customerType, "job_name", jobName)

	// The browser session must not die with the caller's connection.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.jobTimeout)
	defer cancel()

	result, err := h.intake.Run(ctx, payload)
	if err != nil || result == nil || !result.Success {
		msg := failureMessage(result, err)
		log.Error("Intake job failed", "error", msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	log.Info("Intake job completed", "landing_url", result.LandingURL, "identifiers", result.Identifiers)
	resp := fillResponse{
		Success:      true,
		Message:      "Form filled successfully",
		CustomerType: customerType,
		JobName:      jobName,
	}
	resp.JobNumber, _ = result.Identifier(entity.IdentifierJobNumber)
	resp.JobID, _ = result.Identifier(entity.IdentifierJobID)
	writeJSON(w, http.StatusOK, resp)
}

// readDocument decodes a JSON body or a multipart "file" upload.
func readDocument(w http.ResponseWriter, r *http.Request) (any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readUpload(r)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, invalid("Empty request body. Send a JSON job payload or upload a .json file as 'file'.")
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid("Invalid JSON syntax: %v", err)
	}
	return doc, nil
}

func readUpload(r *http.Request) (any, error) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		return nil, invalid("Invalid multipart upload: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, invalid("No file uploaded. Please upload a JSON file with the job payload.")
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, invalid("No file selected. Please choose a JSON file with the job payload.")
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		return nil, invalid("Invalid file type '%s'. Please attach a JSON file with .json extension.", header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, invalid("Empty JSON file '%s'.", header.Filename)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid("Invalid JSON syntax in file '%s': %v", header.Filename, err)
	}
	return doc, nil
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case IsValidationError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func failureMessage(result *entity.SubmissionResult, err error) string {
	if result != nil && result.ErrorMessage != "" {
		return result.ErrorMessage
	}
	if err != nil {
		return err.Error()
	}
	return "intake job did not complete"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, fillResponse{Success: false, Error: msg})
}
