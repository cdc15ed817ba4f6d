package template

import (
	"fmt"
	"strings"
)

// ContentType selects the structural profile used to annotate a prompt.
type ContentType string

const (
	Pillar     ContentType = "pillar"
	Cluster    ContentType = "cluster"
	HowTo      ContentType = "howto"
	Listicle   ContentType = "listicle"
	Comparison ContentType = "comparison"
)

// ContentTypes lists every supported content type in display order.
func ContentTypes() []ContentType {
	return []ContentType{Pillar, Cluster, HowTo, Listicle, Comparison}
}

// Profile describes the sections to emphasize and optimization hints for a
// content type. It annotates a prompt and is never substituted into one
// automatically.
type Profile struct {
	Type        ContentType
	Name        string
	Description string
	Sections    []string
	Hints       []string
}

// ParseContentType maps user input to a ContentType.
func ParseContentType(s string) (ContentType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "pillar", "pillar page", "guide", "ultimate guide":
		return Pillar, nil
	case "cluster", "cluster post", "supporting":
		return Cluster, nil
	case "howto", "how-to", "how to", "tutorial":
		return HowTo, nil
	case "listicle", "list":
		return Listicle, nil
	case "comparison", "versus", "vs":
		return Comparison, nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// GetProfile returns the profile for a content type, falling back to Pillar.
func GetProfile(t ContentType) Profile {
	switch t {
	case Cluster:
		return Profile{
			Type:        Cluster,
			Name:        "Cluster Post",
			Description: "Focused article that supports a pillar page and links back to it",
			Sections:    []string{"Direct answer", "Context", "Worked example", "Related topics"},
			Hints: []string{
				"Answer the query in the first paragraph",
				"Link to the pillar page with descriptive anchor text",
				"Keep the scope to one sub-question",
			},
		}
	case HowTo:
		return Profile{
			Type:        HowTo,
			Name:        "How-To Guide",
			Description: "Step-by-step instructions for completing a task",
			Sections:    []string{"Prerequisites", "Steps", "Troubleshooting", "Next steps"},
			Hints: []string{
				"Number every step and start it with a verb",
				"State the expected result after each step",
				"Mark steps that can fail and how to recover",
			},
		}
	case Listicle:
		return Profile{
			Type:        Listicle,
			Name:        "Listicle",
			Description: "Ranked or grouped list of items with short explanations",
			Sections:    []string{"Intro", "Items", "How we chose", "Summary"},
			Hints: []string{
				"Put the count in the title",
				"Give each item a scannable subheading",
				"Keep item descriptions a similar length",
			},
		}
	case Comparison:
		return Profile{
			Type:        Comparison,
			Name:        "Comparison",
			Description: "Side-by-side evaluation of two or more options",
			Sections:    []string{"Verdict", "Comparison table", "Option deep dives", "Who should pick what"},
			Hints: []string{
				"Lead with the verdict",
				"Use the same criteria for every option",
				"Include a table readers can skim",
			},
		}
	default:
		return Profile{
			Type:        Pillar,
			Name:        "Pillar Page",
			Description: "Comprehensive guide covering a broad topic end to end",
			Sections:    []string{"Definition", "Why it matters", "Core concepts", "Best practices", "FAQ"},
			Hints: []string{
				"Cover the topic broadly and link out to cluster posts",
				"Use H2s for every major subtopic",
				"Add a table of contents and an FAQ section",
			},
		}
	}
}

// Annotation renders the profile as a markdown block that can be shown next
// to a prompt or appended to it on request.
func (p Profile) Annotation() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Content Type: %s\n%s\n", p.Name, p.Description))
	if len(p.Sections) > 0 {
		sb.WriteString("\nSections to emphasize:\n")
		for _, s := range p.Sections {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}
	if len(p.Hints) > 0 {
		sb.WriteString("\nOptimization hints:\n")
		for _, h := range p.Hints {
			sb.WriteString(fmt.Sprintf("- %s\n", h))
		}
	}
	return sb.String()
}
