package view

import (
	"html/template"
	"strings"
)

// IconOption describes a selectable icon in the admin forms.
type IconOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type iconAsset struct {
	Key   string
	Label string
	SVG   string
}

const (
	strokeOpen = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">`
	fillOpen   = `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true">`
	svgClose   = `</svg>`
)

var (
	iconDefinitions = []iconAsset{
		{Key: "car", Label: "Car", SVG: strokeOpen + `<path d="M5 16V11l2-5h10l2 5v5"/><path d="M3 16h18v3H3z"/><circle cx="7.5" cy="19" r="1.5"/><circle cx="16.5" cy="19" r="1.5"/>` + svgClose},
		{Key: "users", Label: "People", SVG: strokeOpen + `<circle cx="9" cy="8" r="3"/><path d="M3 20a6 6 0 0 1 12 0"/><circle cx="17" cy="9" r="2.5"/><path d="M15.5 14.2A5 5 0 0 1 21 19"/>` + svgClose},
		{Key: "shield", Label: "Safety", SVG: strokeOpen + `<path d="M12 3l8 3v6c0 4.5-3.4 8.2-8 9-4.6-.8-8-4.5-8-9V6z"/><path d="M9 12l2 2 4-4"/>` + svgClose},
		{Key: "wallet", Label: "Savings", SVG: strokeOpen + `<rect x="3" y="6" width="18" height="13" rx="2"/><path d="M3 10h18"/><circle cx="16.5" cy="14.5" r="1"/>` + svgClose},
		{Key: "leaf", Label: "Green", SVG: strokeOpen + `<path d="M5 19c0-8 6-14 15-14 0 9-6 15-14 15"/><path d="M5 19l7-7"/>` + svgClose},
		{Key: "clock", Label: "Time", SVG: strokeOpen + `<circle cx="12" cy="12" r="9"/><path d="M12 7v5l3 3"/>` + svgClose},
		{Key: "map", Label: "Route", SVG: strokeOpen + `<path d="M9 4L3 6v14l6-2 6 2 6-2V4l-6 2z"/><path d="M9 4v14M15 6v14"/>` + svgClose},
		{Key: "phone", Label: "Phone", SVG: strokeOpen + `<path d="M5 3h4l2 5-2.5 1.5a11 11 0 0 0 6 6L16 13l5 2v4a2 2 0 0 1-2 2A16 16 0 0 1 3 5a2 2 0 0 1 2-2"/>` + svgClose},
		{Key: "email", Label: "Email", SVG: strokeOpen + `<rect x="3" y="5" width="18" height="14" rx="2"/><path d="M3 7l9 6 9-6"/>` + svgClose},
		{Key: "whatsapp", Label: "WhatsApp", SVG: strokeOpen + `<path d="M4 20l1.3-4A8 8 0 1 1 8 18.7z"/><path d="M9 9.5c.5 2 2 3.5 5 5l1-1.5"/>` + svgClose},
		{Key: "facebook", Label: "Facebook", SVG: fillOpen + `<path d="M14 8h3V4h-3a4 4 0 0 0-4 4v3H7v4h3v7h4v-7h3l1-4h-4V8a1 1 0 0 1 1-1z"/>` + svgClose},
		{Key: "instagram", Label: "Instagram", SVG: strokeOpen + `<rect x="3" y="3" width="18" height="18" rx="5"/><circle cx="12" cy="12" r="4"/><circle cx="17.5" cy="6.5" r=".5"/>` + svgClose},
		{Key: "twitter", Label: "X / Twitter", SVG: fillOpen + `<path d="M18.9 1.2h3.7l-8 9.1L24 22.8h-7.4l-5.8-7.6-6.6 7.6H.5l8.6-9.8L0 1.2h7.6l5.2 6.9zM17.6 20.6h2L6.5 3.2H4.3z"/>` + svgClose},
		{Key: "linkedin", Label: "LinkedIn", SVG: fillOpen + `<path d="M4 3a2 2 0 1 1 0 4 2 2 0 0 1 0-4zM2 9h4v12H2zM9 9h4v1.7A4.5 4.5 0 0 1 21 13v8h-4v-7a2 2 0 0 0-4 0v7H9z"/>` + svgClose},
		{Key: "youtube", Label: "YouTube", SVG: fillOpen + `<path d="M23 7.2a3 3 0 0 0-2.1-2.1C19 4.6 12 4.6 12 4.6s-7 0-8.9.5A3 3 0 0 0 1 7.2 31 31 0 0 0 .5 12a31 31 0 0 0 .5 4.8 3 3 0 0 0 2.1 2.1c1.9.5 8.9.5 8.9.5s7 0 8.9-.5a3 3 0 0 0 2.1-2.1 31 31 0 0 0 .5-4.8 31 31 0 0 0-.5-4.8zM9.7 15.1V8.9l5.8 3.1z"/>` + svgClose},
	}
	defaultIcon = iconAsset{Key: "default", Label: "Dot", SVG: strokeOpen + `<circle cx="12" cy="12" r="4"/>` + svgClose}
	iconLookup  = func() map[string]iconAsset {
		lookup := make(map[string]iconAsset, len(iconDefinitions)+2)
		for _, icon := range iconDefinitions {
			lookup[icon.Key] = icon
		}
		lookup["x"] = lookup["twitter"]
		lookup[defaultIcon.Key] = defaultIcon
		return lookup
	}()
)

// IconOptions exposes the selectable icons for admin forms.
func IconOptions() []IconOption {
	options := make([]IconOption, 0, len(iconDefinitions))
	for _, icon := range iconDefinitions {
		options = append(options, IconOption{Key: icon.Key, Label: icon.Label})
	}
	return options
}

// IconSVG resolves an icon key; unknown keys get the default dot.
func IconSVG(key string) string {
	if icon, ok := iconLookup[strings.ToLower(strings.TrimSpace(key))]; ok {
		return icon.SVG
	}
	return defaultIcon.SVG
}

// Icon is the template helper form of IconSVG.
func Icon(key string) template.HTML {
	return template.HTML(IconSVG(key))
}
