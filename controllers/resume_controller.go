package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/folio/services"
)

// ResumeController streams PDF resumes.
type ResumeController struct {
	resumes *services.ResumeService
}

func NewResumeController(resumes *services.ResumeService) *ResumeController {
	return &ResumeController{resumes: resumes}
}

// Download renders the resume of user :id and sends it as an attachment. The PDF is
// fully built before the first byte is written; failures answer JSON {message}.
func (r *ResumeController) Download(ctx *gin.Context) {
	id, err := paramID(ctx, "id")
	if err != nil {
		fail(ctx, err)
		return
	}

	export, err := r.resumes.Export(ctx.Request.Context(), id)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", contentDisposition(export.Filename))
	ctx.Header("Content-Length", strconv.Itoa(len(export.Body)))
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, export.ContentType, export.Body)
}

// contentDisposition keeps ASCII names in a plain filename parameter. Other names get an
// ASCII fallback plus an RFC 5987 filename* parameter carrying the UTF-8 bytes.
func contentDisposition(filename string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, filename)
	if fallback == filename {
		return fmt.Sprintf(`attachment; filename="%s"`, filename)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.QueryEscape(filename))
}
