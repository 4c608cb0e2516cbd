package normalize

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// regionTable maps region tags to the location names they cover. Matching is
// fuzzy, so "North Las Vegas" still lands on las_vegas.
var regionTable = map[string][]string{
	"remote":        {"remote", "anywhere", "online", "worldwide"},
	"las_vegas":     {"las vegas", "henderson", "paradise nv", "summerlin"},
	"vancouver":     {"vancouver", "burnaby", "richmond bc", "surrey bc"},
	"new_york":      {"new york", "nyc", "brooklyn", "queens", "manhattan"},
	"los_angeles":   {"los angeles", "la ca", "long beach", "santa monica"},
	"san_francisco": {"san francisco", "bay area", "oakland", "san jose"},
	"seattle":       {"seattle", "tacoma", "bellevue"},
	"chicago":       {"chicago", "evanston"},
	"austin":        {"austin", "round rock"},
}

const UnknownRegion = "unknown"

// NormalizeRegion maps a free-text location onto a region tag. A known name
// must appear in the location as a fuzzy match; otherwise the region is
// unknown.
func NormalizeRegion(location string) string {
	location = strings.ToLower(strings.Trim(strings.TrimSpace(location), "()"))
	if location == "" {
		return UnknownRegion
	}

	// Tags are walked in a fixed order so score ties always resolve the
	// same way.
	tags := maps.Keys(regionTable)
	slices.Sort(tags)

	bestTag := UnknownRegion
	bestScore := -1
	for _, tag := range tags {
		for _, name := range regionTable[tag] {
			matches := fuzzy.Find(name, []string{location})
			if len(matches) == 0 {
				continue
			}

			// Prefer exact substring hits over loose character matches.
			score := matches[0].Score
			if strings.Contains(location, name) {
				score += len(name) * 10
			}

			if score > bestScore {
				bestScore = score
				bestTag = tag
			}
		}
	}

	return bestTag
}
