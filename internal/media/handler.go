package media

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/pkg/response"
	"github.com/farmwise/backend/pkg/storage"
)

// Bucket is the subset of storage.S3 the handler uses.
type Bucket interface {
	GeneratePresignedUploadURL(ctx context.Context, key, contentType string) (string, error)
	PublicObjectURL(key string) string
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
}

// UploadURLRequest is the body for POST /media/upload-url.
type UploadURLRequest struct {
	Folder      string `json:"folder" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

// UploadURLResponse is returned by POST /media/upload-url.
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
}

// Handler serves media upload endpoints.
type Handler struct {
	bucket Bucket
	logger *zap.Logger
}

// NewHandler creates a media handler. bucket may be nil when S3 is not configured.
func NewHandler(bucket Bucket, logger *zap.Logger) *Handler {
	return &Handler{bucket: bucket, logger: logger}
}

func (h *Handler) available(c *gin.Context) bool {
	if h.bucket == nil {
		response.ServiceUnavailable(c, "media storage is not configured")
		return false
	}
	return true
}

// folderAllowed rejects unknown folders; catalogue icons are admin-only.
func folderAllowed(c *gin.Context, folder string) bool {
	if !storage.ValidFolder(folder) {
		response.BadRequest(c, "folder must be icons or authors")
		return false
	}
	if folder == storage.FolderIcons && !middleware.Actor(c).IsAdmin() {
		response.Forbidden(c, "only admins can upload icons")
		return false
	}
	return true
}

// UploadURL handles POST /media/upload-url and returns a presigned PUT URL.
func (h *Handler) UploadURL(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !folderAllowed(c, req.Folder) {
		return
	}
	if !storage.ValidateImageType(req.ContentType, req.Filename) {
		response.BadRequest(c, "only jpeg, png, webp and gif images are allowed")
		return
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(req.Filename)
	}
	key := storage.MediaKey(req.Folder, req.Filename, contentType)
	url, err := h.bucket.GeneratePresignedUploadURL(c.Request.Context(), key, contentType)
	if err != nil {
		h.logger.Error("presign media upload", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to create upload url", err)
		return
	}
	response.OK(c, UploadURLResponse{UploadURL: url, PublicURL: h.bucket.PublicObjectURL(key), Key: key})
}

// Upload handles POST /media/upload (multipart: folder, file) for clients that cannot PUT to S3.
func (h *Handler) Upload(c *gin.Context) {
	if !h.available(c) {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageSize+1024*1024)
	folder := c.PostForm("folder")
	if !folderAllowed(c, folder) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > storage.MaxImageSize {
		response.BadRequest(c, "file exceeds 5MB")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !storage.ValidateImageType(contentType, fh.Filename) {
		response.BadRequest(c, "only jpeg, png, webp and gif images are allowed")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		response.Internal(c, "failed to read upload", err)
		return
	}
	defer f.Close()
	key := storage.MediaKey(folder, fh.Filename, contentType)
	url, err := h.bucket.Upload(c.Request.Context(), key, contentType, f, fh.Size)
	if err != nil {
		h.logger.Error("upload media", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to upload file", err)
		return
	}
	response.Created(c, gin.H{"url": url, "key": key})
}
