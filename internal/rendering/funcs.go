package rendering

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/jonathan/site-builder/internal/types"
)

const (
	defaultColor = "#000000"
	defaultFont  = "system-ui"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func siteFuncs() map[string]any {
	return map[string]any{
		"formatDate":    FormatDate,
		"truncateWords": TruncateWords,
		"styleColor":    StyleColor,
		"styleFont":     StyleFont,
	}
}

func htmlFuncs() htmltemplate.FuncMap {
	funcs := sprig.HtmlFuncMap()
	for name, fn := range siteFuncs() {
		funcs[name] = fn
	}
	funcs["markdown"] = func(src string) (htmltemplate.HTML, error) { return Markdown(src) }
	return funcs
}

func textFuncs() texttemplate.FuncMap {
	funcs := sprig.TxtFuncMap()
	for name, fn := range siteFuncs() {
		funcs[name] = fn
	}
	return funcs
}

// FormatDate turns an ISO date into "January 02, 2006". Unparseable input is returned as is.
func FormatDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("January 02, 2006")
		}
	}
	return value
}

// TruncateWords keeps the first n words of text, appending "..." when anything was cut
func TruncateWords(n int, text string) string {
	words := strings.Fields(text)
	if n < 0 || len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + "..."
}

// StyleColor looks up colors[key].value in the style profile, defaulting to black
func StyleColor(key string, style *types.StyleProfile) string {
	if style == nil {
		return defaultColor
	}
	if v := lookupField(style.Colors, key, "value"); v != "" {
		return v
	}
	return defaultColor
}

// StyleFont looks up typography[key].family in the style profile, defaulting to system-ui
func StyleFont(key string, style *types.StyleProfile) string {
	if style == nil {
		return defaultFont
	}
	if v := lookupField(style.Typography, key, "family"); v != "" {
		return v
	}
	return defaultFont
}

// lookupField accepts either {key: "x"} or {key: {field: "x"}}
func lookupField(section map[string]any, key, field string) string {
	switch entry := section[key].(type) {
	case string:
		return entry
	case map[string]any:
		if s, ok := entry[field].(string); ok {
			return s
		}
	}
	return ""
}
