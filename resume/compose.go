package resume

import (
	"sort"
	"strings"
	"time"
)

// Section titles in their fixed output order.
const (
	SummaryTitle    = "Summary"
	SkillsTitle     = "Skills"
	ExperienceTitle = "Experience"
	EducationTitle  = "Education"
	ProjectsTitle   = "Projects"
)

const otherCategory = "Other"

// Data is the aggregated profile a resume is composed from.
type Data struct {
	Name     string
	Tagline  string
	Email    string
	Phone    string
	Location string
	Website  string
	Summary  string

	Skills     []Skill
	Experience []Entry
	Education  []Entry
	Projects   []Project
	Socials    []Social
}

// Skill is one labelled skill.
type Skill struct {
	Name     string
	Category string
}

// Entry is a dated experience or education record. End is nil while ongoing.
type Entry struct {
	Title        string
	Organization string
	Start        time.Time
	End          *time.Time
	Description  string
}

// Project is a showcased project.
type Project struct {
	Title       string
	Description string
	URL         string
	TechStack   string
}

// Social is a visible social profile.
type Social struct {
	Platform string
	URL      string
}

// ResumeDocument is the derived, layout-free content of a resume.
type ResumeDocument struct {
	Header   Header
	Sections []Section
	Footer   string
}

// Header is the top block of the first page.
type Header struct {
	Name    string
	Tagline string
	Contact string
}

// Section is a titled group of items. Sections are never empty.
type Section struct {
	Title string
	Items []Item
}

// Item is one entry inside a section; any field may be blank.
type Item struct {
	Title    string
	Subtitle string
	Body     string
}

// Compose builds the resume content, dropping every section whose source is empty.
func Compose(d Data) ResumeDocument {
	doc := ResumeDocument{
		Header: Header{
			Name:    strings.TrimSpace(d.Name),
			Tagline: strings.TrimSpace(d.Tagline),
			Contact: joinNonEmpty(" | ", d.Email, d.Phone, d.Location, d.Website),
		},
	}

	if summary := strings.TrimSpace(d.Summary); summary != "" {
		doc.Sections = append(doc.Sections, Section{Title: SummaryTitle, Items: []Item{{Body: summary}}})
	}
	if items := skillItems(d.Skills); len(items) > 0 {
		doc.Sections = append(doc.Sections, Section{Title: SkillsTitle, Items: items})
	}
	if len(d.Experience) > 0 {
		doc.Sections = append(doc.Sections, Section{Title: ExperienceTitle, Items: entryItems(d.Experience)})
	}
	if len(d.Education) > 0 {
		doc.Sections = append(doc.Sections, Section{Title: EducationTitle, Items: entryItems(d.Education)})
	}
	if len(d.Projects) > 0 {
		items := make([]Item, 0, len(d.Projects))
		for _, p := range d.Projects {
			items = append(items, Item{
				Title:    p.Title,
				Subtitle: joinNonEmpty(" | ", p.TechStack, p.URL),
				Body:     strings.TrimSpace(p.Description),
			})
		}
		doc.Sections = append(doc.Sections, Section{Title: ProjectsTitle, Items: items})
	}

	socials := make([]string, 0, len(d.Socials))
	for _, s := range d.Socials {
		socials = append(socials, joinNonEmpty(": ", s.Platform, s.URL))
	}
	doc.Footer = joinNonEmpty("  |  ", socials...)
	return doc
}

// skillItems groups skills by category, keeping categories in order of first appearance.
func skillItems(skills []Skill) []Item {
	var order []string
	groups := map[string][]string{}
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		category := strings.TrimSpace(s.Category)
		if category == "" {
			category = otherCategory
		}
		if _, seen := groups[category]; !seen {
			order = append(order, category)
		}
		groups[category] = append(groups[category], name)
	}

	items := make([]Item, 0, len(order))
	for _, category := range order {
		items = append(items, Item{Title: category, Body: strings.Join(groups[category], ", ")})
	}
	return items
}

// entryItems renders dated entries newest first. Ties keep their input order.
func entryItems(entries []Entry) []Item {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.After(sorted[j].Start)
	})

	items := make([]Item, 0, len(sorted))
	for _, e := range sorted {
		items = append(items, Item{
			Title:    e.Title,
			Subtitle: joinNonEmpty(" | ", e.Organization, FormatDateRange(e.Start, e.End)),
			Body:     strings.TrimSpace(e.Description),
		})
	}
	return items
}

// FormatDateRange renders "Jan 2022 - Mar 2024", or "Jan 2022 - Present" when end is absent.
func FormatDateRange(start time.Time, end *time.Time) string {
	to := "Present"
	if end != nil && !end.IsZero() {
		to = end.Format("Jan 2006")
	}
	return start.Format("Jan 2006") + " - " + to
}

// Filename derives the download name from the display name, whitespace replaced with underscores.
func Filename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/':
			return -1
		}
		return r
	}, name)
	parts := strings.Fields(cleaned)
	if len(parts) == 0 {
		return "Resume.pdf"
	}
	return strings.Join(parts, "_") + "_Resume.pdf"
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
