package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/folio/services"
	"github.com/cppla/folio/utils"
)

// PortfolioController serves the public portfolio payload.
type PortfolioController struct {
	portfolios *services.PortfolioService
	cache      *utils.Cache
}

func NewPortfolioController(portfolios *services.PortfolioService, cache *utils.Cache) *PortfolioController {
	return &PortfolioController{portfolios: portfolios, cache: cache}
}

// Get returns the aggregated portfolio of :username, served from cache when warm.
func (p *PortfolioController) Get(ctx *gin.Context) {
	username := ctx.Param("username")
	key := portfolioCacheKey(username)
	if b, ok := p.cache.GetBytes(ctx.Request.Context(), key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	portfolio, err := p.portfolios.LoadByUsername(ctx.Request.Context(), username)
	if err != nil {
		fail(ctx, err)
		return
	}
	body := utils.Envelope{Code: 0, Message: "success", Data: portfolio}
	p.cache.SetJSON(ctx.Request.Context(), key, body)
	ctx.JSON(http.StatusOK, body)
}
