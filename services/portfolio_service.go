package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/cppla/folio/models"
)

// Portfolio is everything a public portfolio page or a resume needs, in display order.
type Portfolio struct {
	User       models.User         `json:"user"`
	Profile    models.Profile      `json:"profile"`
	Skills     []models.Skill      `json:"skills"`
	Experience []models.Experience `json:"experience"`
	Education  []models.Education  `json:"education"`
	Projects   []models.Project    `json:"projects"`
	Socials    []models.Social     `json:"socials"`
	Links      []models.Link       `json:"links"`
}

// PortfolioService loads aggregated profile data.
type PortfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a PortfolioService on the shared pool.
func NewPortfolioService(db *gorm.DB) *PortfolioService {
	return &PortfolioService{db: db}
}

// Load fetches a user's portfolio by id.
func (s *PortfolioService) Load(ctx context.Context, userID uint) (*Portfolio, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "load user")
	}
	return s.load(ctx, user)
}

// LoadByUsername fetches a user's portfolio by username.
func (s *PortfolioService) LoadByUsername(ctx context.Context, username string) (*Portfolio, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrParamInvalid
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "load user")
	}
	return s.load(ctx, user)
}

// load fetches every section concurrently; the first failure cancels the others and
// no partial portfolio is returned.
func (s *PortfolioService) load(ctx context.Context, user models.User) (*Portfolio, error) {
	p := &Portfolio{User: user}
	g, gctx := errgroup.WithContext(ctx)
	scoped := func() *gorm.DB {
		return s.db.WithContext(gctx).Where("user_id = ?", user.ID)
	}

	g.Go(func() error {
		err := scoped().Limit(1).Find(&p.Profile).Error
		return errors.Wrap(err, "load profile")
	})
	g.Go(func() error {
		return errors.Wrap(scoped().Order("sort_order, id").Find(&p.Skills).Error, "load skills")
	})
	g.Go(func() error {
		return errors.Wrap(scoped().Order("start_date DESC, sort_order, id").Find(&p.Experience).Error, "load experience")
	})
	g.Go(func() error {
		return errors.Wrap(scoped().Order("start_date DESC, sort_order, id").Find(&p.Education).Error, "load education")
	})
	g.Go(func() error {
		return errors.Wrap(scoped().Order("sort_order, id").Find(&p.Projects).Error, "load projects")
	})
	g.Go(func() error {
		return errors.Wrap(scoped().Where("visible = ?", true).Order("sort_order, id").Find(&p.Socials).Error, "load socials")
	})
	g.Go(func() error {
		return errors.Wrap(scoped().Order("sort_order, id").Find(&p.Links).Error, "load links")
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.User.Profile = nil
	return p, nil
}

// notFoundAs maps gorm's not-found error onto a domain sentinel and wraps everything else.
func notFoundAs(err error, sentinel error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return errors.Wrap(err, op)
}
