package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/captainminh1999/my-webspace-sub000/internal/catalog"
	"github.com/captainminh1999/my-webspace-sub000/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var cvTemplate = template.Must(template.New("cv.html").Funcs(template.FuncMap{
	"formatDate": func(t time.Time, layout string) string { return t.Format(layout) },
}).ParseFS(templateFS, "templates/cv.html"))

// TemplateData holds data for CV template rendering
type TemplateData struct {
	Name        string
	Headline    string
	Location    string
	Email       string
	Summary     string
	Sections    []TemplateSection
	GeneratedAt time.Time
}

type TemplateSection struct {
	Title string
	Items []TemplateItem
}

type TemplateItem struct {
	Heading    string
	Subheading string
	Period     string
	Body       string
	Details    []TemplateDetail
}

type TemplateDetail struct {
	Label string
	Value string
}

var sectionTitles = map[catalog.Section]string{
	catalog.Experience:              "Experience",
	catalog.Education:               "Education",
	catalog.Licenses:                "Licenses & Certifications",
	catalog.Projects:                "Projects",
	catalog.Volunteering:            "Volunteering",
	catalog.Skills:                  "Skills",
	catalog.RecommendationsGiven:    "Recommendations Given",
	catalog.RecommendationsReceived: "Recommendations Received",
	catalog.HonorsAwards:            "Honors & Awards",
	catalog.Languages:               "Languages",
}

var (
	headingKeys    = []string{"title", "name", "position", "role", "degree", "skill", "language"}
	subheadingKeys = []string{"company", "companyName", "organization", "school", "institution", "issuer", "issuingOrganization", "authority", "recommender", "recipient", "proficiency", "fieldOfStudy"}
	bodyKeys       = []string{"description", "summary", "text", "recommendation", "notes"}
	periodKeys     = []string{"startDate", "endDate", "from", "to", "date", "issueDate", "issuedOn", "year"}
)

// BuildTemplateData lays out a full CV mapping (section name to document or
// list of documents) for the template.
func BuildTemplateData(cv map[string]any, now time.Time) TemplateData {
	data := TemplateData{GeneratedAt: now}

	if profile := docsOf(cv[string(catalog.Profile)]); len(profile) > 0 {
		p := profile[0]
		data.Name, _ = pick(p, "name", "fullName")
		if data.Name == "" {
			data.Name = strings.TrimSpace(text(p["firstName"]) + " " + text(p["lastName"]))
		}
		data.Headline, _ = pick(p, "headline", "title")
		data.Location, _ = pick(p, "location", "geoLocation")
		data.Email, _ = pick(p, "email", "emailAddress")
		data.Summary, _ = pick(p, "summary")
	}
	if about := docsOf(cv[string(catalog.About)]); len(about) > 0 && data.Summary == "" {
		data.Summary, _ = pick(about[0], "summary", "about", "text", "description")
	}

	for _, section := range catalog.Sections {
		title, ok := sectionTitles[section]
		if !ok {
			continue
		}
		docs := docsOf(cv[string(section)])
		if len(docs) == 0 {
			continue
		}
		out := TemplateSection{Title: title}
		for _, doc := range docs {
			out.Items = append(out.Items, buildItem(doc))
		}
		data.Sections = append(data.Sections, out)
	}
	return data
}

func buildItem(doc map[string]any) TemplateItem {
	used := map[string]bool{}
	var item TemplateItem
	var key string

	item.Heading, key = pick(doc, headingKeys...)
	used[key] = true
	item.Subheading, key = pick(doc, subheadingKeys...)
	used[key] = true
	item.Body, key = pick(doc, bodyKeys...)
	used[key] = true

	start, _ := pick(doc, "startDate", "from")
	end, _ := pick(doc, "endDate", "to")
	switch {
	case start != "" && end != "":
		item.Period = start + " - " + end
	case start != "":
		item.Period = start + " - Present"
	default:
		item.Period, _ = pick(doc, "date", "issueDate", "issuedOn", "year")
	}
	for _, k := range periodKeys {
		used[k] = true
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if !used[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := text(doc[k]); v != "" {
			item.Details = append(item.Details, TemplateDetail{Label: humanize(k), Value: v})
		}
	}
	return item
}

// RenderHTML renders the CV template with provided data
func RenderHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := cvTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docsOf(v any) []map[string]any {
	switch t := v.(type) {
	case store.Document:
		return []map[string]any{t}
	case map[string]any:
		return []map[string]any{t}
	case []store.Document:
		out := make([]map[string]any, 0, len(t))
		for _, d := range t {
			out = append(out, d)
		}
		return out
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			out = append(out, docsOf(item)...)
		}
		return out
	default:
		return nil
	}
}

func pick(doc map[string]any, keys ...string) (string, string) {
	for _, k := range keys {
		if v := text(doc[k]); v != "" {
			return v, k
		}
	}
	return "", ""
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(t)
	}
}

// humanize turns "fieldOfStudy" into "Field of study".
func humanize(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
