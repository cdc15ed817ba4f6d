package template

import (
	"fmt"
	"os"
	"strings"
)

// Placeholder tokens recognized by the default templates.
// [KEYWORD] and [keyword] are distinct tokens; no case folding happens.
const (
	PlaceholderKeyword      = "[KEYWORD]"
	PlaceholderKeywordLower = "[keyword]"
	PlaceholderContent      = "[CONTENT]"
)

// Binding pairs a literal placeholder token with the value that replaces it.
type Binding struct {
	Placeholder string
	Value       string
}

// Bind is shorthand for constructing a Binding.
func Bind(placeholder, value string) Binding {
	return Binding{Placeholder: placeholder, Value: value}
}

// Resolve replaces every non-overlapping occurrence of each binding's
// placeholder with its value in a single left-to-right pass.
//
// Inserted values are never scanned again, so a value that itself contains a
// placeholder token is inserted verbatim. When two placeholders match at the
// same position the binding listed first wins. Placeholders without a binding
// stay in the output untouched.
func Resolve(tmpl string, bindings ...Binding) string {
	pairs := make([]string, 0, len(bindings)*2)
	for _, b := range bindings {
		// strings.Replacer treats an empty old string as "match everywhere"
		if b.Placeholder == "" {
			continue
		}
		pairs = append(pairs, b.Placeholder, b.Value)
	}
	if len(pairs) == 0 {
		return tmpl
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Placeholders reports which of the known tokens still appear in s, in the
// order PlaceholderKeyword, PlaceholderKeywordLower, PlaceholderContent.
// The UI uses it to show a prompt as pending.
func Placeholders(s string) []string {
	var found []string
	for _, token := range []string{PlaceholderKeyword, PlaceholderKeywordLower, PlaceholderContent} {
		if strings.Contains(s, token) {
			found = append(found, token)
		}
	}
	return found
}

// LoadFromFile loads a template from a file.
// If the file doesn't exist or can't be read, returns an error.
func LoadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return string(data), nil
}

// GetTemplate returns the template content.
// If customPath is non-empty, loads from that file, otherwise returns fallback.
func GetTemplate(customPath, fallback string) (string, error) {
	if customPath == "" {
		return fallback, nil
	}
	return LoadFromFile(customPath)
}

// Set is the pair of templates the wizard derives its step prompts from.
type Set struct {
	Review   string
	Analysis string
}

// DefaultSet returns the compiled-in templates.
func DefaultSet() Set {
	return Set{Review: DefaultReviewTemplate, Analysis: DefaultAnalysisTemplate}
}

// LoadSet resolves both templates, preferring the custom paths when set.
func LoadSet(reviewPath, analysisPath string) (Set, error) {
	review, err := GetTemplate(reviewPath, DefaultReviewTemplate)
	if err != nil {
		return Set{}, err
	}
	analysis, err := GetTemplate(analysisPath, DefaultAnalysisTemplate)
	if err != nil {
		return Set{}, err
	}
	return Set{Review: review, Analysis: analysis}, nil
}

// ReviewPrompt resolves the review template for a keyword and research text.
func (s Set) ReviewPrompt(keyword, research string) string {
	return Resolve(s.Review,
		Bind(PlaceholderKeywordLower, keyword),
		Bind(PlaceholderContent, research),
	)
}

// AnalysisPrompt resolves the analysis template for a keyword and research text.
func (s Set) AnalysisPrompt(keyword, research string) string {
	return Resolve(s.Analysis,
		Bind(PlaceholderKeyword, keyword),
		Bind(PlaceholderContent, research),
	)
}
