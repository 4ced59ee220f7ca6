package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/folio/middleware"
	"github.com/cppla/folio/services"
	"github.com/cppla/folio/utils"
)

// AuthController handles local account registration and token sessions.
type AuthController struct {
	auth      *services.AuthService
	issuer    *utils.TokenIssuer
	blacklist *utils.TokenBlacklist
}

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService, issuer *utils.TokenIssuer, blacklist *utils.TokenBlacklist) *AuthController {
	return &AuthController{auth: auth, issuer: issuer, blacklist: blacklist}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64,alphanumunicode"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Name     string `json:"name" binding:"max=128"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      interface{} `json:"user"`
}

// Register creates an account and signs the user in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}

	user, err := a.auth.Register(ctx.Request.Context(), services.Registration{
		Username: req.Username,
		Email:    req.Email,
		Name:     utils.SanitizeText(req.Name),
		Password: req.Password,
	})
	if err != nil {
		fail(ctx, err)
		return
	}

	token, expires, err := a.issuer.Generate(user.ID, user.Username)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Created(ctx, tokenResponse{Token: token, ExpiresAt: expires.Unix(), User: user})
}

// Login exchanges credentials for a bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}

	user, err := a.auth.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(ctx, err)
		return
	}
	token, expires, err := a.issuer.Generate(user.ID, user.Username)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Sugar.Infow("user logged in", "user_id", user.ID, "ip", ctx.ClientIP())
	utils.Success(ctx, tokenResponse{Token: token, ExpiresAt: expires.Unix(), User: user})
}

// Logout revokes the presented token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context) {
	claims, _ := ctx.MustGet(middleware.ContextClaimsKey).(*utils.Claims)
	token := ctx.GetString(middleware.ContextTokenKey)
	if claims == nil || claims.ExpiresAt == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid token")
		return
	}
	if err := a.blacklist.Revoke(ctx.Request.Context(), token, claims.ExpiresAt.Time); err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user with their profile.
func (a *AuthController) Me(ctx *gin.Context) {
	user, err := a.auth.User(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, user)
}
