package scoring

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// GearKeywords maps a gear tag to the keywords that suggest it, e.g.
// "drill" -> ["install", "mount", "anchor"].
type GearKeywords struct {
	Tags map[string][]string `toml:"tags"`
}

func LoadGearKeywords(path string) (GearKeywords, error) {
	var keywords GearKeywords
	if _, err := toml.DecodeFile(path, &keywords); err != nil {
		return GearKeywords{}, err
	}

	return keywords, nil
}

func DefaultGearKeywords() GearKeywords {
	return GearKeywords{Tags: map[string][]string{
		"drill":          {"install", "screw", "mount", "drill", "anchor", "bolt"},
		"ladder":         {"high", "ceiling", "light", "sign", "gutter"},
		"dolly":          {"move", "heavy", "appliance", "furniture"},
		"ratchet set":    {"mechanic", "car", "vehicle", "engine"},
		"gloves":         {"trash", "clean", "yard", "hazard", "dirty"},
		"multimeter":     {"electrical", "wiring", "circuit", "voltage"},
		"hex keys":       {"bike", "furniture", "ikea", "assemble"},
		"shop vac":       {"dust", "cleanup", "debris", "removal"},
		"safety glasses": {"cutting", "grind", "saw", "danger"},
		"wifi analyzer":  {"network", "router", "signal", "wifi"},
		"plunger":        {"faucet", "leak", "plumbing", "drain", "toilet", "sink"},
	}}
}

// Match returns the suggested gear tags for a text, ordered by the first
// occurrence of any of their keywords, deduplicated and capped at max.
func (g GearKeywords) Match(text string, max int) []string {
	text = strings.ToLower(text)

	type match struct {
		tag   string
		index int
	}

	matches := []match{}
	for tag, keywords := range g.Tags {
		first := -1
		for _, keyword := range keywords {
			idx := strings.Index(text, strings.ToLower(keyword))
			if idx < 0 {
				continue
			}

			if first < 0 || idx < first {
				first = idx
			}
		}

		if first >= 0 {
			matches = append(matches, match{tag: tag, index: first})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].index != matches[j].index {
			return matches[i].index < matches[j].index
		}

		return matches[i].tag < matches[j].tag
	})

	if max > 0 && len(matches) > max {
		matches = matches[:max]
	}

	tags := make([]string, len(matches))
	for i, m := range matches {
		tags[i] = m.tag
	}

	return tags
}
