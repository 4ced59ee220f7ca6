package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/cppla/folio/middleware"
	"github.com/cppla/folio/models"
	"github.com/cppla/folio/services"
	"github.com/cppla/folio/utils"
)

// sectionRequest is the body of a section create or replace. normalize sanitizes
// free text and checks rules the binding tags cannot express.
type sectionRequest interface {
	normalize() error
}

// SectionController serves CRUD for one portfolio section over SectionService.
type SectionController[T any, PT interface {
	*T
	services.Owned
}] struct {
	rows   *services.SectionService[T, PT]
	cache  *utils.Cache
	newReq func() sectionRequest
}

// NewSectionController creates a controller decoding bodies with newReq.
func NewSectionController[T any, PT interface {
	*T
	services.Owned
}](rows *services.SectionService[T, PT], cache *utils.Cache, newReq func() sectionRequest) *SectionController[T, PT] {
	return &SectionController[T, PT]{rows: rows, cache: cache, newReq: newReq}
}

// Register mounts the collection under group.
func (s *SectionController[T, PT]) Register(group *gin.RouterGroup) {
	group.GET("", s.List)
	group.POST("", s.Create)
	group.PUT("/:id", s.Update)
	group.DELETE("/:id", s.Delete)
}

// List returns the caller's rows.
func (s *SectionController[T, PT]) List(ctx *gin.Context) {
	rows, err := s.rows.List(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": rows})
}

// Create adds a row owned by the caller.
func (s *SectionController[T, PT]) Create(ctx *gin.Context) {
	row := PT(new(T))
	if err := s.decode(ctx, row); err != nil {
		fail(ctx, err)
		return
	}
	if err := s.rows.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), row); err != nil {
		fail(ctx, err)
		return
	}
	s.invalidate(ctx)
	utils.Created(ctx, row)
}

// Update replaces the editable fields of one of the caller's rows.
func (s *SectionController[T, PT]) Update(ctx *gin.Context) {
	id, err := paramID(ctx, "id")
	if err != nil {
		fail(ctx, err)
		return
	}
	userID := middleware.CurrentUserID(ctx)
	row, err := s.rows.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	if err := s.decode(ctx, row); err != nil {
		fail(ctx, err)
		return
	}
	if err := s.rows.Save(ctx.Request.Context(), userID, row); err != nil {
		fail(ctx, err)
		return
	}
	s.invalidate(ctx)
	utils.Success(ctx, row)
}

// Delete removes one of the caller's rows.
func (s *SectionController[T, PT]) Delete(ctx *gin.Context) {
	id, err := paramID(ctx, "id")
	if err != nil {
		fail(ctx, err)
		return
	}
	if err := s.rows.Delete(ctx.Request.Context(), middleware.CurrentUserID(ctx), id); err != nil {
		fail(ctx, err)
		return
	}
	s.invalidate(ctx)
	utils.Success(ctx, gin.H{"message": "deleted"})
}

func (s *SectionController[T, PT]) decode(ctx *gin.Context, row PT) error {
	req := s.newReq()
	if err := bindJSON(ctx, req); err != nil {
		return err
	}
	if err := req.normalize(); err != nil {
		return err
	}
	if err := copier.CopyWithOption(row, req, copyOptions); err != nil {
		return errors.Wrap(services.ErrParamInvalid, err.Error())
	}
	return nil
}

func (s *SectionController[T, PT]) invalidate(ctx *gin.Context) {
	s.cache.Delete(ctx.Request.Context(), portfolioCacheKey(middleware.CurrentUsername(ctx)))
}

// RegisterSections mounts CRUD for every portfolio section below group.
func RegisterSections(group *gin.RouterGroup, db *gorm.DB, cache *utils.Cache) {
	NewSectionController(services.NewSectionService[models.Experience](db), cache,
		func() sectionRequest { return &experienceRequest{} }).Register(group.Group("/experiences"))
	NewSectionController(services.NewSectionService[models.Education](db), cache,
		func() sectionRequest { return &educationRequest{} }).Register(group.Group("/educations"))
	NewSectionController(services.NewSectionService[models.Skill](db), cache,
		func() sectionRequest { return &skillRequest{} }).Register(group.Group("/skills"))
	NewSectionController(services.NewSectionService[models.Project](db), cache,
		func() sectionRequest { return &projectRequest{} }).Register(group.Group("/projects"))
	NewSectionController(services.NewSectionService[models.Social](db), cache,
		func() sectionRequest { return &socialRequest{} }).Register(group.Group("/socials"))
	NewSectionController(services.NewSectionService[models.Link](db), cache,
		func() sectionRequest { return &linkRequest{} }).Register(group.Group("/links"))
}

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid date %q", s)
}

// copyOptions converts request date strings into model dates. An empty end date means
// the entry is ongoing.
var copyOptions = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: copier.String,
			DstType: time.Time{},
			Fn: func(src interface{}) (interface{}, error) {
				return parseDate(src.(string))
			},
		},
		{
			SrcType: copier.String,
			DstType: (*time.Time)(nil),
			Fn: func(src interface{}) (interface{}, error) {
				if strings.TrimSpace(src.(string)) == "" {
					return (*time.Time)(nil), nil
				}
				t, err := parseDate(src.(string))
				if err != nil {
					return nil, err
				}
				return &t, nil
			},
		},
		{
			SrcType: (*bool)(nil),
			DstType: true,
			Fn: func(src interface{}) (interface{}, error) {
				b, _ := src.(*bool)
				return b == nil || *b, nil
			},
		},
	},
}

type skillRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	Category  string `json:"category" binding:"max=64"`
	Level     string `json:"level" binding:"max=32"`
	SortOrder int    `json:"sort_order"`
}

func (r *skillRequest) normalize() error {
	r.Name, r.Category, r.Level = utils.SanitizeText(r.Name), utils.SanitizeText(r.Category), utils.SanitizeText(r.Level)
	return requireText(r.Name)
}

type experienceRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Company     string `json:"company" binding:"required,max=128"`
	Location    string `json:"location" binding:"max=128"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	Description string `json:"description" binding:"max=10000"`
	SortOrder   int    `json:"sort_order"`
}

func (r *experienceRequest) normalize() error {
	r.Title, r.Company, r.Location = utils.SanitizeText(r.Title), utils.SanitizeText(r.Company), utils.SanitizeText(r.Location)
	r.Description = utils.SanitizeText(r.Description)
	if err := requireText(r.Title, r.Company); err != nil {
		return err
	}
	return checkDates(r.StartDate, r.EndDate)
}

type educationRequest struct {
	Degree       string `json:"degree" binding:"required,max=128"`
	Institution  string `json:"institution" binding:"required,max=128"`
	FieldOfStudy string `json:"field_of_study" binding:"max=128"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description" binding:"max=10000"`
	SortOrder    int    `json:"sort_order"`
}

func (r *educationRequest) normalize() error {
	r.Degree, r.Institution = utils.SanitizeText(r.Degree), utils.SanitizeText(r.Institution)
	r.FieldOfStudy, r.Description = utils.SanitizeText(r.FieldOfStudy), utils.SanitizeText(r.Description)
	if err := requireText(r.Degree, r.Institution); err != nil {
		return err
	}
	return checkDates(r.StartDate, r.EndDate)
}

type projectRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"max=10000"`
	URL         string `json:"url" binding:"omitempty,url,max=512"`
	RepoURL     string `json:"repo_url" binding:"omitempty,url,max=512"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=512"`
	TechStack   string `json:"tech_stack" binding:"max=255"`
	SortOrder   int    `json:"sort_order"`
}

func (r *projectRequest) normalize() error {
	r.Title, r.Description, r.TechStack = utils.SanitizeText(r.Title), utils.SanitizeText(r.Description), utils.SanitizeText(r.TechStack)
	return requireText(r.Title)
}

type socialRequest struct {
	Platform  string `json:"platform" binding:"required,max=50"`
	URL       string `json:"url" binding:"required,url,max=512"`
	Visible   *bool  `json:"visible"`
	SortOrder int    `json:"sort_order"`
}

func (r *socialRequest) normalize() error {
	r.Platform = utils.SanitizeText(r.Platform)
	return requireText(r.Platform)
}

type linkRequest struct {
	Title     string `json:"title" binding:"required,max=128"`
	URL       string `json:"url" binding:"required,url,max=512"`
	SortOrder int    `json:"sort_order"`
}

func (r *linkRequest) normalize() error {
	r.Title = utils.SanitizeText(r.Title)
	return requireText(r.Title)
}

// requireText rejects fields that were reduced to nothing by sanitizing.
func requireText(fields ...string) error {
	for _, f := range fields {
		if f == "" {
			return errors.Wrap(services.ErrParamInvalid, "required field is empty")
		}
	}
	return nil
}

func checkDates(start, end string) error {
	from, err := parseDate(start)
	if err != nil {
		return errors.Wrap(services.ErrParamInvalid, err.Error())
	}
	if strings.TrimSpace(end) == "" {
		return nil
	}
	to, err := parseDate(end)
	if err != nil {
		return errors.Wrap(services.ErrParamInvalid, err.Error())
	}
	if to.Before(from) {
		return errors.Wrap(services.ErrParamInvalid, "end date before start date")
	}
	return nil
}
