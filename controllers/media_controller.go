package controllers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/folio/media"
	"github.com/cppla/folio/middleware"
	"github.com/cppla/folio/services"
	"github.com/cppla/folio/utils"
)

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// MediaController uploads portfolio images to the media host.
type MediaController struct {
	store   *media.Store
	maxSize int64
}

// NewMediaController accepts images up to maxSizeMB megabytes.
func NewMediaController(store *media.Store, maxSizeMB int) *MediaController {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &MediaController{store: store, maxSize: int64(maxSizeMB) << 20}
}

// Upload stores the multipart field "file" and returns its public URL.
func (m *MediaController) Upload(ctx *gin.Context) {
	if m.store == nil {
		fail(ctx, services.ErrMediaUnavailable)
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > m.maxSize {
		fail(ctx, services.ErrFileTooLarge)
		return
	}

	// Read one byte past the limit so a lying Content-Length is still caught.
	body, err := io.ReadAll(io.LimitReader(file, m.maxSize+1))
	if err != nil {
		fail(ctx, err)
		return
	}
	if int64(len(body)) > m.maxSize {
		fail(ctx, services.ErrFileTooLarge)
		return
	}

	// Trust the content, not the client's header.
	contentType := http.DetectContentType(body)
	if !imageTypes[contentType] {
		fail(ctx, services.ErrFileNotSupported)
		return
	}

	obj, err := m.store.Upload(ctx.Request.Context(), middleware.CurrentUserID(ctx), header.Filename,
		bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Created(ctx, obj)
}
