// Package types provides type definitions for structured data used throughout the resume-chat system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// TemplateID selects one of the visual resume layouts
type TemplateID string

// Template identifiers, in gallery order
const (
	TemplateClassic      TemplateID = "classic"
	TemplateModern       TemplateID = "modern"
	TemplateMinimal      TemplateID = "minimal"
	TemplateProfessional TemplateID = "professional"
	TemplateCreative     TemplateID = "creative"
	TemplateExecutive    TemplateID = "executive"
	TemplateAcademic     TemplateID = "academic"
	TemplateTech         TemplateID = "tech"
)

// AllTemplates lists every template identifier in gallery order.
var AllTemplates = []TemplateID{
	TemplateClassic,
	TemplateModern,
	TemplateMinimal,
	TemplateProfessional,
	TemplateCreative,
	TemplateExecutive,
	TemplateAcademic,
	TemplateTech,
}

// Valid reports whether id names a known template.
func (id TemplateID) Valid() bool {
	for _, t := range AllTemplates {
		if t == id {
			return true
		}
	}
	return false
}

// LayoutMode selects the micro-layout used for a custom section
type LayoutMode string

// Layout modes for custom sections
const (
	LayoutList         LayoutMode = "list"
	LayoutProgressBars LayoutMode = "progress-bars"
	LayoutTags         LayoutMode = "tags"
	LayoutGrid         LayoutMode = "grid"
)

// Valid reports whether m is a known layout mode. The empty mode is valid and renders as a list.
func (m LayoutMode) Valid() bool {
	switch m {
	case "", LayoutList, LayoutProgressBars, LayoutTags, LayoutGrid:
		return true
	}
	return false
}

// FontSize is the base text size of the rendered document
type FontSize string

// Font sizes
const (
	FontSmall  FontSize = "small"
	FontNormal FontSize = "normal"
	FontLarge  FontSize = "large"
)

// Valid reports whether s is a known font size.
func (s FontSize) Valid() bool {
	return s == FontSmall || s == FontNormal || s == FontLarge
}

// DocumentSpacing controls margins and gaps in the rendered document
type DocumentSpacing string

// Spacing presets
const (
	SpacingCompact DocumentSpacing = "compact"
	SpacingNormal  DocumentSpacing = "normal"
	SpacingRelaxed DocumentSpacing = "relaxed"
)

// Valid reports whether s is a known spacing preset.
func (s DocumentSpacing) Valid() bool {
	return s == SpacingCompact || s == SpacingNormal || s == SpacingRelaxed
}

// Default theme values
const (
	DefaultPrimaryColor = "#2563eb"
	DefaultFontFamily   = "Inter"
)

// PersonalInfo holds contact details and the headline of the resume.
// Empty strings mean "unset".
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Summary   string `json:"summary"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Education is a single education entry
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Experience is a single work experience entry
type Experience struct {
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
}

// SkillLevel is a 0-5 proficiency scale used by progress-bar sections.
// Out-of-range values are kept as-is; the renderer clamps them.
type SkillLevel int

// UnmarshalJSON accepts any JSON number and rounds it to the nearest integer.
func (l *SkillLevel) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid level %s: %w", string(data), err)
	}
	*l = SkillLevel(math.Round(f))
	return nil
}

// Level returns a pointer to a SkillLevel, for building items in code and tests.
func Level(n int) *SkillLevel {
	l := SkillLevel(n)
	return &l
}

// CustomSectionItem is one entry of a custom section. Every field is optional.
type CustomSectionItem struct {
	Title       string      `json:"title,omitempty"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Date        string      `json:"date,omitempty"`
	Description []string    `json:"description,omitempty"`
	Level       *SkillLevel `json:"level,omitempty"`
}

// CustomSection holds resume content that does not fit the fixed categories
type CustomSection struct {
	SectionTitle string              `json:"sectionTitle"`
	LayoutMode   LayoutMode          `json:"layoutMode,omitempty"`
	Items        []CustomSectionItem `json:"items"`
}

// Theme holds presentation settings
type Theme struct {
	PrimaryColor    string          `json:"primaryColor"`
	FontFamily      string          `json:"fontFamily"`
	FontSize        FontSize        `json:"fontSize,omitempty"`
	DocumentSpacing DocumentSpacing `json:"documentSpacing,omitempty"`
}

// ResumeDocument is the single mutable aggregate describing one user's resume
type ResumeDocument struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Education      []Education     `json:"education"`
	WorkExperience []Experience    `json:"workExperience"`
	Skills         []string        `json:"skills"`
	CustomSections []CustomSection `json:"customSections"`
	Theme          Theme           `json:"theme"`
	TemplateID     TemplateID      `json:"templateId"`
}

// NewResumeDocument returns the initial, empty document.
func NewResumeDocument() *ResumeDocument {
	return &ResumeDocument{
		Education:      []Education{},
		WorkExperience: []Experience{},
		Skills:         []string{},
		CustomSections: []CustomSection{},
		Theme:          DefaultTheme(),
		TemplateID:     TemplateClassic,
	}
}

// DefaultTheme returns the theme of a fresh document.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    DefaultPrimaryColor,
		FontFamily:      DefaultFontFamily,
		FontSize:        FontNormal,
		DocumentSpacing: SpacingNormal,
	}
}

// Normalize replaces nil lists with empty ones and fills unset or unknown theme
// fields from the defaults. An unknown template is cleared. It returns d for chaining.
func (d *ResumeDocument) Normalize() *ResumeDocument {
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.WorkExperience == nil {
		d.WorkExperience = []Experience{}
	}
	for i := range d.WorkExperience {
		if d.WorkExperience[i].Description == nil {
			d.WorkExperience[i].Description = []string{}
		}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.CustomSections == nil {
		d.CustomSections = []CustomSection{}
	}
	for i := range d.CustomSections {
		if d.CustomSections[i].Items == nil {
			d.CustomSections[i].Items = []CustomSectionItem{}
		}
		// item descriptions are omitempty on the wire, so empty and absent must agree
		for j := range d.CustomSections[i].Items {
			if len(d.CustomSections[i].Items[j].Description) == 0 {
				d.CustomSections[i].Items[j].Description = nil
			}
		}
		if !d.CustomSections[i].LayoutMode.Valid() {
			d.CustomSections[i].LayoutMode = LayoutList
		}
	}

	defaults := DefaultTheme()
	if strings.TrimSpace(d.Theme.PrimaryColor) == "" {
		d.Theme.PrimaryColor = defaults.PrimaryColor
	}
	if strings.TrimSpace(d.Theme.FontFamily) == "" {
		d.Theme.FontFamily = defaults.FontFamily
	}
	if !d.Theme.FontSize.Valid() {
		d.Theme.FontSize = defaults.FontSize
	}
	if !d.Theme.DocumentSpacing.Valid() {
		d.Theme.DocumentSpacing = defaults.DocumentSpacing
	}
	// unknown templates read as "not specified" so they never switch the displayed layout
	if !d.TemplateID.Valid() {
		d.TemplateID = ""
	}
	return d
}

// Clone returns a deep copy of d.
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Skills = cloneStrings(d.Skills)
	if d.Education != nil {
		out.Education = make([]Education, len(d.Education))
		copy(out.Education, d.Education)
	}
	if d.WorkExperience != nil {
		out.WorkExperience = make([]Experience, len(d.WorkExperience))
		for i, exp := range d.WorkExperience {
			exp.Description = cloneStrings(exp.Description)
			out.WorkExperience[i] = exp
		}
	}
	if d.CustomSections != nil {
		out.CustomSections = make([]CustomSection, len(d.CustomSections))
		for i, section := range d.CustomSections {
			if section.Items != nil {
				items := make([]CustomSectionItem, len(section.Items))
				for j, item := range section.Items {
					item.Description = cloneStrings(item.Description)
					if item.Level != nil {
						lvl := *item.Level
						item.Level = &lvl
					}
					items[j] = item
				}
				section.Items = items
			}
			out.CustomSections[i] = section
		}
	}
	return &out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// IsEmpty reports whether the document has no content worth rendering sections for.
func (d *ResumeDocument) IsEmpty() bool {
	return len(d.Education) == 0 &&
		len(d.WorkExperience) == 0 &&
		len(d.CustomSections) == 0 &&
		strings.TrimSpace(d.PersonalInfo.Summary) == ""
}

// FullName joins first and last name.
func (d *ResumeDocument) FullName() string {
	return strings.TrimSpace(d.PersonalInfo.FirstName + " " + d.PersonalInfo.LastName)
}

// ExportFileName is the download name of the exported PDF.
func (d *ResumeDocument) ExportFileName() string {
	first := strings.TrimSpace(d.PersonalInfo.FirstName)
	if first == "" {
		first = "My"
	}
	return first + "_Resume.pdf"
}

// PreserveImage carries prior's locally uploaded image onto extracted when the
// extraction result has none. Extraction responses never know about uploaded images.
func PreserveImage(extracted, prior *ResumeDocument) *ResumeDocument {
	if extracted == nil || prior == nil {
		return extracted
	}
	if extracted.PersonalInfo.ImageURL == "" && prior.PersonalInfo.ImageURL != "" {
		extracted.PersonalInfo.ImageURL = prior.PersonalInfo.ImageURL
	}
	return extracted
}
