package rendering

import "github.com/jonathan/resume-chat/internal/types"

// SectionKind names a block of resume content. Custom expands to one section per
// custom section of the document, in document order.
type SectionKind string

// Section kinds
const (
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
	SectionCustom     SectionKind = "custom"
)

// Columns is the page structure of a layout
type Columns string

// Column structures
const (
	ColumnsSingle  Columns = "single"
	ColumnsSidebar Columns = "sidebar"
)

// SkillStyle selects how the top-level skills list is drawn
type SkillStyle string

// Skill styles
const (
	SkillsInline SkillStyle = "inline"
	SkillsTags   SkillStyle = "tags"
)

// Layout describes one visual template. Every layout renders the same section semantics;
// only the order, placement and styling tokens differ.
type Layout struct {
	ID          types.TemplateID `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Swatch      string           `json:"swatch"`

	Columns Columns       `json:"-"`
	Main    []SectionKind `json:"-"`
	// Sidebar sections render next to Main when Columns is ColumnsSidebar.
	Sidebar []SectionKind `json:"-"`

	Skills         SkillStyle `json:"-"`
	SkillSeparator string     `json:"-"`

	// NumberedTitles prefixes section titles with a two-digit ordinal ("01. Summary").
	NumberedTitles bool `json:"-"`
	// HeadlinePrefix is printed before the job title in the header.
	HeadlinePrefix string `json:"-"`
	// Titles overrides the default heading of a fixed section. An empty override
	// renders the section without a heading.
	Titles map[SectionKind]string `json:"-"`
}

var defaultTitles = map[SectionKind]string{
	SectionSummary:    "Professional Summary",
	SectionExperience: "Experience",
	SectionEducation:  "Education",
	SectionSkills:     "Skills",
}

// Title returns the heading for a fixed section kind and whether one should be shown.
func (l Layout) Title(kind SectionKind) (string, bool) {
	if title, ok := l.Titles[kind]; ok {
		return title, title != ""
	}
	title, ok := defaultTitles[kind]
	return title, ok
}

// Sections returns every section kind the layout places, main column first.
func (l Layout) Sections() []SectionKind {
	out := make([]SectionKind, 0, len(l.Main)+len(l.Sidebar))
	out = append(out, l.Main...)
	if l.Columns == ColumnsSidebar {
		out = append(out, l.Sidebar...)
	}
	return out
}

var standardOrder = []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionSkills, SectionCustom}

var catalog = []Layout{
	{
		ID:             types.TemplateClassic,
		Name:           "Classic",
		Description:    "A clean, traditional single-column layout. Best for standard corporate roles.",
		Swatch:         "#f8fafc",
		Columns:        ColumnsSingle,
		Main:           standardOrder,
		Skills:         SkillsInline,
		SkillSeparator: " • ",
	},
	{
		ID:          types.TemplateModern,
		Name:        "Modern",
		Description: "A stylish two-column design with a distinct sidebar for contact info and skills.",
		Swatch:      "#eff6ff",
		Columns:     ColumnsSidebar,
		Main:        []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionCustom},
		Sidebar:     []SectionKind{SectionSkills},
		Skills:      SkillsTags,
		Titles:      map[SectionKind]string{SectionSummary: "Profile"},
	},
	{
		ID:             types.TemplateMinimal,
		Name:           "Minimal",
		Description:    "Heavy typography focus with strict black-and-white contrast. Great for designers.",
		Swatch:         "#f1f5f9",
		Columns:        ColumnsSingle,
		Main:           standardOrder,
		Skills:         SkillsInline,
		SkillSeparator: ", ",
		Titles:         map[SectionKind]string{SectionSummary: ""},
	},
	{
		ID:             types.TemplateProfessional,
		Name:           "Professional",
		Description:    "Highly structured top border and clean lines. Perfect for corporate roles.",
		Swatch:         "#ffffff",
		Columns:        ColumnsSingle,
		Main:           standardOrder,
		Skills:         SkillsInline,
		SkillSeparator: " • ",
		Titles:         map[SectionKind]string{SectionSkills: "Core Competencies"},
	},
	{
		ID:          types.TemplateCreative,
		Name:        "Creative",
		Description: "Bold header and vibrant usage of space. Excellent for marketing.",
		Swatch:      "#fdf4ff",
		Columns:     ColumnsSidebar,
		Main:        []SectionKind{SectionSummary, SectionExperience, SectionCustom},
		Sidebar:     []SectionKind{SectionSkills, SectionEducation},
		Skills:      SkillsTags,
		Titles:      map[SectionKind]string{SectionSummary: "About Me"},
	},
	{
		ID:             types.TemplateExecutive,
		Name:           "Executive",
		Description:    "Elegant lines and sophisticated typography for C-level formatting.",
		Swatch:         "#f8fafc",
		Columns:        ColumnsSingle,
		Main:           []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionCustom, SectionSkills},
		Skills:         SkillsInline,
		SkillSeparator: " | ",
		Titles: map[SectionKind]string{
			SectionSummary:    "Executive Summary",
			SectionExperience: "Professional Experience",
			SectionSkills:     "Areas of Expertise",
		},
	},
	{
		ID:             types.TemplateAcademic,
		Name:           "Academic",
		Description:    "Dense list-driven structure optimized for research, CVs, and publications.",
		Swatch:         "#ffffff",
		Columns:        ColumnsSingle,
		Main:           []SectionKind{SectionEducation, SectionExperience, SectionCustom, SectionSummary, SectionSkills},
		Skills:         SkillsInline,
		SkillSeparator: "; ",
		Titles: map[SectionKind]string{
			SectionSummary:    "Research Interests",
			SectionExperience: "Academic & Professional Experience",
		},
	},
	{
		ID:             types.TemplateTech,
		Name:           "Tech",
		Description:    "Dark accents and heavy grid layouts natively built for engineers.",
		Swatch:         "#1e293b",
		Columns:        ColumnsSingle,
		Main:           []SectionKind{SectionSummary, SectionSkills, SectionExperience, SectionCustom, SectionEducation},
		Skills:         SkillsTags,
		NumberedTitles: true,
		HeadlinePrefix: "> ",
		Titles: map[SectionKind]string{
			SectionSummary: "Summary",
			SectionSkills:  "Technologies",
		},
	},
}

// Catalog returns the layouts in gallery order.
func Catalog() []Layout {
	out := make([]Layout, len(catalog))
	copy(out, catalog)
	return out
}

// LayoutFor returns the layout for id, falling back to classic for unknown identifiers.
func LayoutFor(id types.TemplateID) Layout {
	for _, l := range catalog {
		if l.ID == id {
			return l
		}
	}
	return catalog[0]
}
