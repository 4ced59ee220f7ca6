package resume

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestCompose_EmptyProfileHasNoSections(t *testing.T) {
	doc := Compose(Data{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Socials: []Social{{Platform: "GitHub", URL: "https://github.com/jane"}},
	})

	assert.Empty(t, doc.Sections)
	assert.Equal(t, "Jane Doe", doc.Header.Name)
	assert.Equal(t, "jane@example.com", doc.Header.Contact)
	assert.Equal(t, "GitHub: https://github.com/jane", doc.Footer)
}

func TestCompose_SectionOrderIsFixed(t *testing.T) {
	doc := Compose(Data{
		Name:       "Jane",
		Summary:    "Builder of things.",
		Projects:   []Project{{Title: "folio"}},
		Education:  []Entry{{Title: "BSc", Organization: "Uni", Start: month(2010, time.September), End: ptr(month(2014, time.June))}},
		Experience: []Entry{{Title: "Engineer", Organization: "Acme", Start: month(2015, time.January)}},
		Skills:     []Skill{{Name: "Go", Category: "Languages"}},
	})

	var titles []string
	for _, s := range doc.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{SummaryTitle, SkillsTitle, ExperienceTitle, EducationTitle, ProjectsTitle}, titles)
}

func TestCompose_HeaderContactSkipsMissingFields(t *testing.T) {
	doc := Compose(Data{Name: "Jane", Email: "jane@example.com", Location: "Berlin", Website: " "})

	assert.Equal(t, "jane@example.com | Berlin", doc.Header.Contact)
}

func TestCompose_SkillsGroupedByFirstOccurrence(t *testing.T) {
	doc := Compose(Data{Skills: []Skill{
		{Name: "Go", Category: "Languages"},
		{Name: "Postgres", Category: "Databases"},
		{Name: "Rust", Category: "Languages"},
		{Name: "Git"},
		{Name: "Redis", Category: "Databases"},
	}})

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []Item{
		{Title: "Languages", Body: "Go, Rust"},
		{Title: "Databases", Body: "Postgres, Redis"},
		{Title: "Other", Body: "Git"},
	}, doc.Sections[0].Items)
}

func TestCompose_ExperienceReverseChronological(t *testing.T) {
	doc := Compose(Data{Experience: []Entry{
		{Title: "Junior", Organization: "A", Start: month(2015, time.March), End: ptr(month(2017, time.May))},
		{Title: "Lead", Organization: "C", Start: month(2021, time.February)},
		{Title: "Senior", Organization: "B", Start: month(2017, time.June), End: ptr(month(2021, time.January))},
	}})

	require.Len(t, doc.Sections, 1)
	items := doc.Sections[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, "Lead", items[0].Title)
	assert.Equal(t, "Senior", items[1].Title)
	assert.Equal(t, "Junior", items[2].Title)
	assert.Equal(t, "C | Feb 2021 - Present", items[0].Subtitle)
	assert.Equal(t, "A | Mar 2015 - May 2017", items[2].Subtitle)
}

func TestFormatDateRange(t *testing.T) {
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Jan 2022 - Present", FormatDateRange(start, nil))
	assert.True(t, strings.HasSuffix(FormatDateRange(start, &time.Time{}), "Present"))
	assert.Equal(t, "Jan 2022 - Dec 2023", FormatDateRange(start, ptr(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"simple", "Jane Doe", "Jane_Doe_Resume.pdf"},
		{"runs of whitespace", "  Jane \t Q   Doe ", "Jane_Q_Doe_Resume.pdf"},
		{"quotes dropped", `Jane "JD" Doe`, "Jane_JD_Doe_Resume.pdf"},
		{"empty", "   ", "Resume.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Filename(tt.in))
		})
	}
}
