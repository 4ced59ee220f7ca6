package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/folio/middleware"
	"github.com/cppla/folio/services"
	"github.com/cppla/folio/utils"
)

// ProfileController edits the authenticated user's portfolio header.
type ProfileController struct {
	profiles *services.ProfileService
	cache    *utils.Cache
}

func NewProfileController(profiles *services.ProfileService, cache *utils.Cache) *ProfileController {
	return &ProfileController{profiles: profiles, cache: cache}
}

type profileRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=128"`
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	Tagline   *string `json:"tagline" binding:"omitempty,max=255"`
	Bio       *string `json:"bio" binding:"omitempty,max=10000"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	Location  *string `json:"location" binding:"omitempty,max=128"`
	Website   *string `json:"website" binding:"omitempty,url,max=512"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url,max=512"`
}

// Get returns the caller's user record and profile.
func (p *ProfileController) Get(ctx *gin.Context) {
	user, err := p.profiles.Get(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, user)
}

// Update applies the fields present in the body.
func (p *ProfileController) Update(ctx *gin.Context) {
	var req profileRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}

	user, err := p.profiles.Update(ctx.Request.Context(), middleware.CurrentUserID(ctx), services.ProfileUpdate{
		Name:      cleanText(req.Name),
		Email:     req.Email,
		Tagline:   cleanText(req.Tagline),
		Bio:       cleanText(req.Bio),
		Phone:     cleanText(req.Phone),
		Location:  cleanText(req.Location),
		Website:   req.Website,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	p.cache.Delete(ctx.Request.Context(), portfolioCacheKey(user.Username))
	utils.Success(ctx, user)
}

func cleanText(s *string) *string {
	if s == nil {
		return nil
	}
	v := utils.SanitizeText(*s)
	return &v
}

func portfolioCacheKey(username string) string {
	return "cache:portfolio:" + username
}
