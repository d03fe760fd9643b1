package router

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"
	"unicode"

	"github.com/cabpool/internal/service"
	"github.com/cabpool/internal/view"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// templateFuncs 返回模板使用的辅助函数
func templateFuncs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"icon":      view.Icon,
		"hasPrefix": strings.HasPrefix,
		"title":     titleCase,
		"href":      safeHref,
		"initials":  initials,
		"stars":     stars,
		"bytes":     formatBytes,
		"dict":      dict,
		"toJSON":    toJSON,
		"formatDate": func(value interface{}) string {
			t, ok := asTime(value)
			if !ok {
				return ""
			}
			return t.Format("2 Jan 2006")
		},
		"isoDate": func(value interface{}) string {
			t, ok := asTime(value)
			if !ok {
				return ""
			}
			return t.Format(time.RFC3339)
		},
		"relativeTime": func(value interface{}) string {
			t, ok := asTime(value)
			if !ok {
				return ""
			}
			return formatRelativeTime(now(), t)
		},
	}
}

// parseTemplates parses every page and partial under fsys.
func parseTemplates(fsys fs.FS, funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(fsys, "*.html")
}

// titleCase builds a caser per call; cases.Caser is not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// safeHref trusts hrefs that pass navigation validation so tel: links survive escaping.
func safeHref(href string) template.URL {
	if !service.IsValidHref(href) {
		return template.URL("#")
	}
	return template.URL(href)
}

func asTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	default:
		return time.Time{}, false
	}
}

// formatRelativeTime renders t relative to now, e.g. "5 minutes ago".
func formatRelativeTime(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	if diff < time.Minute {
		return "just now"
	}

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case diff < time.Hour:
		return plural(int(diff/time.Minute), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff/time.Hour), "hour")
	case diff < 30*24*time.Hour:
		return plural(int(diff/(24*time.Hour)), "day")
	case diff < 365*24*time.Hour:
		return plural(int(diff/(30*24*time.Hour)), "month")
	default:
		return plural(int(diff/(365*24*time.Hour)), "year")
	}
}

func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToUpper(r))
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func formatBytes(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// dict builds a map for passing several values to a sub-template.
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict expects key/value pairs")
	}
	out := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

func toJSON(value interface{}) (string, error) {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
