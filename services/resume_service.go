package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/cppla/folio/metrics"
	"github.com/cppla/folio/resume"
)

// Export is a fully rendered resume ready to be streamed.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ResumeService renders portfolios as paginated PDF resumes.
type ResumeService struct {
	portfolios *PortfolioService
	setup      resume.PageSetup
}

// NewResumeService creates a ResumeService laying out A4 pages.
func NewResumeService(portfolios *PortfolioService) *ResumeService {
	return &ResumeService{portfolios: portfolios, setup: resume.A4}
}

// Export loads the user's portfolio and renders it completely into memory. Nothing is
// returned unless every step succeeded, so callers never stream a partial document.
func (s *ResumeService) Export(ctx context.Context, userID uint) (*Export, error) {
	start := time.Now()
	out, err := s.export(ctx, userID)
	switch {
	case err == nil:
		metrics.ResumeExports.WithLabelValues("ok").Inc()
		metrics.ResumeExportDuration.Observe(time.Since(start).Seconds())
	case errors.Is(err, ErrUserNotFound):
		metrics.ResumeExports.WithLabelValues("not_found").Inc()
	default:
		metrics.ResumeExports.WithLabelValues("error").Inc()
	}
	return out, err
}

func (s *ResumeService) export(ctx context.Context, userID uint) (*Export, error) {
	p, err := s.portfolios.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc := resume.Layout(resume.Compose(ResumeData(p)), resume.NewPDFMeasurer(), s.setup)
	doc.Finalize()

	var buf bytes.Buffer
	if err := resume.Render(doc, &buf); err != nil {
		return nil, errors.Wrap(err, "render resume")
	}
	return &Export{
		Filename:    resume.Filename(p.User.DisplayName()),
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}

// ResumeData maps a loaded portfolio onto resume input.
func ResumeData(p *Portfolio) resume.Data {
	d := resume.Data{
		Name:     p.User.DisplayName(),
		Tagline:  p.Profile.Tagline,
		Email:    p.User.Email,
		Phone:    p.Profile.Phone,
		Location: p.Profile.Location,
		Website:  p.Profile.Website,
		Summary:  p.Profile.Bio,
	}
	for _, s := range p.Skills {
		d.Skills = append(d.Skills, resume.Skill{Name: s.Name, Category: s.Category})
	}
	for _, e := range p.Experience {
		d.Experience = append(d.Experience, resume.Entry{
			Title:        e.Title,
			Organization: joinNonEmpty(", ", e.Company, e.Location),
			Start:        e.StartDate,
			End:          e.EndDate,
			Description:  e.Description,
		})
	}
	for _, e := range p.Education {
		title := e.Degree
		if e.FieldOfStudy != "" {
			title += " in " + e.FieldOfStudy
		}
		d.Education = append(d.Education, resume.Entry{
			Title:        title,
			Organization: e.Institution,
			Start:        e.StartDate,
			End:          e.EndDate,
			Description:  e.Description,
		})
	}
	for _, pr := range p.Projects {
		d.Projects = append(d.Projects, resume.Project{
			Title:       pr.Title,
			Description: pr.Description,
			URL:         pr.URL,
			TechStack:   pr.TechStack,
		})
	}
	for _, s := range p.Socials {
		d.Socials = append(d.Socials, resume.Social{Platform: s.Platform, URL: s.URL})
	}
	return d
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
