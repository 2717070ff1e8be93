package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yuuchan-san/soundcloud-downloader/application/cleanup"
	"github.com/yuuchan-san/soundcloud-downloader/application/download"
	"github.com/yuuchan-san/soundcloud-downloader/domain/artifact"
	"github.com/yuuchan-san/soundcloud-downloader/domain/extraction"
)

// audioContentType is the content type for served artifacts. The target
// codec is mp3, so the stream is always advertised as audio/mpeg.
const audioContentType = "audio/mpeg"

type handler struct {
	downloads *download.Service
	cleaner   *cleanup.Service
	store     artifact.Store
	logger    *slog.Logger
}

func newHandler(downloads *download.Service, cleaner *cleanup.Service, store artifact.Store, logger *slog.Logger) *handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &handler{
		downloads: downloads,
		cleaner:   cleaner,
		store:     store,
		logger:    logger,
	}
}

func (h *handler) register(engine *gin.Engine) {
	engine.GET("/", h.handleRoot)
	engine.POST("/download", h.handleDownload)
	engine.GET("/file/:filename", h.handleFile)
	engine.DELETE("/cleanup", h.handleCleanup)
}

// writeError collapses an internal failure to a status plus a
// human-readable message; no internal error types cross the boundary
func (h *handler) writeError(c *gin.Context, status int, message string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "detail", message)
	} else {
		h.logger.Warn("request refused", "status", status, "detail", message)
	}
	c.JSON(status, gin.H{"detail": message})
}

func (h *handler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "SoundCloud Downloader API",
		"status":  "running",
	})
}

type downloadRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *handler) handleDownload(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "a source URL is required")
		return
	}

	result, err := h.downloads.Download(c.Request.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, extraction.ErrSizeUnknown),
			errors.Is(err, extraction.ErrSizeExceeded),
			errors.Is(err, extraction.ErrSourceRejected):
			h.writeError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, download.ErrArtifactMissing):
			h.writeError(c, http.StatusInternalServerError,
				"the download failed: the track may not exist or may not permit downloading")
		default:
			h.writeError(c, http.StatusInternalServerError, fmt.Sprintf("server error: %v", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"title":         result.Title,
		"safe_filename": result.SafeFilename,
		"download_url":  result.DownloadURL,
	})
}

func (h *handler) handleFile(c *gin.Context) {
	name := c.Param("filename")

	path, err := h.store.Resolve(name)
	if err != nil {
		h.writeError(c, http.StatusNotFound, "file not found")
		return
	}

	disposition := encodeDisposition(downloadName(c.Query("download_name"), name))
	c.Header("Content-Type", audioContentType)
	c.Header("Content-Disposition", disposition)

	// c.File returns once the body is fully flushed to the client or the
	// connection aborts, so removal right after it is the post-response
	// hook: it fires exactly once per claim. A racing sweep may have
	// already removed the file; Remove treats that as success.
	c.File(path)

	if err := h.store.Remove(name); err != nil {
		h.logger.Error("failed to delete served artifact", "name", name, "error", err)
		return
	}
	h.logger.Info("artifact served and deleted", "name", name)
}

func (h *handler) handleCleanup(c *gin.Context) {
	result, err := h.cleaner.PurgeAll()
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d files deleted", result.Count()),
	})
}
