package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"auditgo/internal/audit"
	"auditgo/internal/completion"
	"auditgo/internal/fetch"
	"auditgo/internal/storage"
	"auditgo/internal/upload"
)

const maxUploadBytes = 10 << 20 // 10 MB

// Auditor runs the report pipeline. Satisfied by *audit.Service and by test
// doubles.
type Auditor interface {
	Analyse(ctx context.Context, website string) (string, error)
	Generate(ctx context.Context, website string, fileIDs []string) (string, error)
}

// Handler wires HTTP routes to the audit pipeline and the upload store.
type Handler struct {
	audits  Auditor
	uploads *upload.Store
	history *storage.History
}

// NewHandler constructs a Handler instance. history may be nil when report
// recording is disabled.
func NewHandler(audits Auditor, uploads *upload.Store, history *storage.History) *Handler {
	return &Handler{
		audits:  audits,
		uploads: uploads,
		history: history,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ping", h.ping)
	api := router.Group("/api")
	api.POST("/analyse-website", h.analyseWebsite)
	api.POST("/upload-file", h.uploadFile)
	api.POST("/generate-audit", h.generateAudit)
	api.GET("/audits", h.listAudits)
}

func (h *Handler) ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

type analyseRequest struct {
	Website string `json:"website"`
}

func (h *Handler) analyseWebsite(c *gin.Context) {
	var req analyseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	summary, err := h.audits.Analyse(c.Request.Context(), req.Website)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
}

type generateRequest struct {
	Website string   `json:"website"`
	Files   []string `json:"files"`
}

func (h *Handler) generateAudit(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	html, err := h.audits.Generate(c.Request.Context(), req.Website, req.Files)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": html})
}

func (h *Handler) uploadFile(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open file failed"})
		return
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	contentType := http.DetectContentType(buf[:n])
	if _, err := f.Seek(0, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
		return
	}

	stored, err := h.uploads.Save(f, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save file failed"})
		return
	}
	stored.MimeType = contentType

	if h.history != nil {
		if err := h.history.RecordUpload(c.Request.Context(), stored); err != nil {
			log.Printf("record upload %s: %v", stored.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       stored.ID,
		"filename": stored.FileName,
		"size":     stored.Size,
		"mime":     stored.MimeType,
	})
}

func (h *Handler) listAudits(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"audits": []any{}})
		return
	}
	records, err := h.history.ListAudits(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		c.JSON(http.StatusOK, gin.H{"audits": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audits": records})
}

// respondPipelineError maps pipeline failures onto the JSON error surface:
// validation to 400, fetch and completion failures to 500 with a reason
// naming the failing stage.
func (h *Handler) respondPipelineError(c *gin.Context, err error) {
	if errors.Is(err, audit.ErrWebsiteMissing) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "website missing"})
		return
	}
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to fetch: " + fetchErr.Error()})
		return
	}
	var svcErr *completion.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": svcErr.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
