package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/jonathan/resume-chat/internal/types"
)

//go:embed templates/*
var templateFS embed.FS

// PlaceholderText is shown in place of section headers when the document is empty.
const PlaceholderText = "Your resume will appear here as you chat."

// NamePlaceholder is the heading used when the document has no name.
const NamePlaceholder = "Your Name"

// DocumentSelector matches the node that holds the rendered resume.
const DocumentSelector = ".resume-document"

// DefaultLevel is used for progress-bar items that carry no level.
const DefaultLevel = 4

var fontSizes = map[types.FontSize]int{
	types.FontSmall:  13,
	types.FontNormal: 15,
	types.FontLarge:  17,
}

var (
	pageTemplate = template.Must(template.New("resume.html.tmpl").ParseFS(templateFS, "templates/resume.html.tmpl"))
	stylesheet   = template.CSS(mustRead("templates/resume.css"))

	colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20})$`)
	fontPattern  = regexp.MustCompile(`^[a-zA-Z0-9 \-]{1,64}$`)
)

func mustRead(name string) string {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("rendering: missing embedded %s: %v", name, err))
	}
	return string(data)
}

type itemView struct {
	Title    string
	Subtitle string
	Date     string
	Bullets  []string
	Text     string
	Percent  int
}

type sectionView struct {
	Kind      SectionKind
	Title     string
	ShowTitle bool
	Summary   string
	Mode      types.LayoutMode
	Items     []itemView
	Skills    []string
	Inline    string
}

type pageView struct {
	Title      string
	Stylesheet template.CSS
	ThemeCSS   template.CSS
	Class      string
	Name       string
	HasName    bool
	Headline   string
	Contacts   []string
	Image      template.URL
	Sidebar    bool
	Main       []sectionView
	Aside      []sectionView
	Empty      bool
}

// RenderHTML renders doc as a standalone HTML page using the layout for id.
// Unknown identifiers render with the classic layout; a nil document renders as empty.
func RenderHTML(doc *types.ResumeDocument, id types.TemplateID) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, doc, id); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render writes the page for doc to w.
func Render(w io.Writer, doc *types.ResumeDocument, id types.TemplateID) error {
	if doc == nil {
		doc = types.NewResumeDocument()
	}
	view := buildPage(doc, LayoutFor(id))
	if err := pageTemplate.Execute(w, view); err != nil {
		return &TemplateError{Message: fmt.Sprintf("failed to render %s layout", id), Cause: err}
	}
	return nil
}

// LevelPercent converts a 0-5 skill level to a bar fill percentage. A missing or zero level
// counts as DefaultLevel; the result is clamped to [0, 100].
func LevelPercent(level *types.SkillLevel) int {
	n := DefaultLevel
	if level != nil && *level != 0 {
		n = int(*level)
	}
	return min(max(n*20, 0), 100)
}

func buildPage(doc *types.ResumeDocument, layout Layout) pageView {
	info := doc.PersonalInfo
	view := pageView{
		Title:      pageTitle(doc),
		Stylesheet: stylesheet,
		ThemeCSS:   themeCSS(doc.Theme),
		Class:      documentClass(layout, doc.Theme),
		Name:       doc.FullName(),
		Image:      imageURL(info.ImageURL),
		Sidebar:    layout.Columns == ColumnsSidebar,
		Empty:      doc.IsEmpty(),
	}
	view.HasName = view.Name != ""
	if title := strings.TrimSpace(info.Title); title != "" {
		view.Headline = layout.HeadlinePrefix + title
	}
	for _, c := range []string{info.Email, info.Phone, info.Location} {
		if c = strings.TrimSpace(c); c != "" {
			view.Contacts = append(view.Contacts, c)
		}
	}

	ordinal := 0
	number := func(sections []sectionView) []sectionView {
		if !layout.NumberedTitles {
			return sections
		}
		for i := range sections {
			if sections[i].ShowTitle {
				ordinal++
				sections[i].Title = fmt.Sprintf("%02d. %s", ordinal, sections[i].Title)
			}
		}
		return sections
	}
	view.Main = number(buildSections(doc, layout, layout.Main))
	if view.Sidebar {
		view.Aside = number(buildSections(doc, layout, layout.Sidebar))
	}
	return view
}

func buildSections(doc *types.ResumeDocument, layout Layout, kinds []SectionKind) []sectionView {
	var out []sectionView
	for _, kind := range kinds {
		if kind == SectionCustom {
			for _, cs := range doc.CustomSections {
				out = append(out, customSection(cs))
			}
			continue
		}
		section, ok := fixedSection(doc, layout, kind)
		if ok {
			out = append(out, section)
		}
	}
	return out
}

func fixedSection(doc *types.ResumeDocument, layout Layout, kind SectionKind) (sectionView, bool) {
	title, show := layout.Title(kind)
	section := sectionView{Kind: kind, Title: title, ShowTitle: show, Mode: types.LayoutList}

	switch kind {
	case SectionSummary:
		section.Summary = strings.TrimSpace(doc.PersonalInfo.Summary)
		return section, section.Summary != ""

	case SectionExperience:
		for _, exp := range doc.WorkExperience {
			section.Items = append(section.Items, itemView{
				Title:    exp.Position,
				Subtitle: exp.Company,
				Date:     dateRange(exp.StartDate, exp.EndDate),
				Bullets:  nonBlank(exp.Description),
			})
		}
		return section, len(section.Items) > 0

	case SectionEducation:
		for _, edu := range doc.Education {
			section.Items = append(section.Items, itemView{
				Title:    edu.Degree,
				Subtitle: edu.Institution,
				Date:     dateRange(edu.StartDate, edu.EndDate),
			})
		}
		return section, len(section.Items) > 0

	case SectionSkills:
		skills := nonBlank(doc.Skills)
		if layout.Skills == SkillsTags {
			section.Mode = types.LayoutTags
			for _, s := range skills {
				section.Items = append(section.Items, itemView{Title: s})
			}
		} else {
			section.Inline = strings.Join(skills, layout.SkillSeparator)
		}
		section.Skills = skills
		return section, len(skills) > 0
	}
	return section, false
}

// customSection picks the micro-layout from the section's own layout mode, so custom
// content looks the same in every template.
func customSection(cs types.CustomSection) sectionView {
	mode := cs.LayoutMode
	if mode == "" || !mode.Valid() {
		mode = types.LayoutList
	}
	section := sectionView{
		Kind:      SectionCustom,
		Title:     cs.SectionTitle,
		ShowTitle: strings.TrimSpace(cs.SectionTitle) != "",
		Mode:      mode,
	}
	for _, item := range cs.Items {
		bullets := nonBlank(item.Description)
		section.Items = append(section.Items, itemView{
			Title:    item.Title,
			Subtitle: item.Subtitle,
			Date:     item.Date,
			Bullets:  bullets,
			Text:     strings.Join(bullets, " "),
			Percent:  LevelPercent(item.Level),
		})
	}
	return section
}

func documentClass(layout Layout, theme types.Theme) string {
	spacing := theme.DocumentSpacing
	if !spacing.Valid() {
		spacing = types.SpacingNormal
	}
	classes := []string{"resume-document", string(layout.ID) + "-template", "spacing-" + string(spacing)}
	if layout.Columns == ColumnsSidebar {
		classes = append(classes, "has-sidebar")
	}
	return strings.Join(classes, " ")
}

// themeCSS builds the custom properties for the theme. Values that are not a plain color or
// font name fall back to the defaults so nothing user-supplied reaches the stylesheet raw.
func themeCSS(theme types.Theme) template.CSS {
	accent := strings.TrimSpace(theme.PrimaryColor)
	if !colorPattern.MatchString(accent) {
		accent = types.DefaultPrimaryColor
	}
	font := strings.TrimSpace(theme.FontFamily)
	if !fontPattern.MatchString(font) {
		font = types.DefaultFontFamily
	}
	size, ok := fontSizes[theme.FontSize]
	if !ok {
		size = fontSizes[types.FontNormal]
	}
	return template.CSS(fmt.Sprintf(
		":root { --accent: %s; --font-family: '%s', 'Helvetica Neue', Arial, sans-serif; --base-font-size: %dpx; }",
		accent, font, size,
	))
}

// imageURL admits only inline images and http(s) links as the profile picture source.
func imageURL(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "data:image/"),
		strings.HasPrefix(raw, "https://"),
		strings.HasPrefix(raw, "http://"):
		return template.URL(raw)
	}
	return ""
}

func pageTitle(doc *types.ResumeDocument) string {
	if name := doc.FullName(); name != "" {
		return name + " - Resume"
	}
	return "Resume"
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case end != "":
		return end
	}
	return start
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
