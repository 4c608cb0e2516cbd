package normalize

import (
	"github.com/BurntSushi/toml"
)

// FilterKeywords is the externally configurable relevance policy: listings
// matching an exclude keyword are dropped unless an override keyword also
// matches (precedence itself is configurable). HighPriority keywords rescue
// reward-less listings from the low-priority flag.
type FilterKeywords struct {
	Exclude      []string `toml:"exclude"`
	Override     []string `toml:"override"`
	HighPriority []string `toml:"high_priority"`
}

func LoadFilterKeywords(path string) (FilterKeywords, error) {
	var keywords FilterKeywords
	if _, err := toml.DecodeFile(path, &keywords); err != nil {
		return FilterKeywords{}, err
	}

	return keywords, nil
}

// DefaultFilterKeywords returns the built-in policy used when no data file
// is configured.
func DefaultFilterKeywords() FilterKeywords {
	return FilterKeywords{
		Exclude: []string{
			"mlm", "pyramid", "adult", "onlyfans", "crypto giveaway",
			"work from home scam", "free money", "no experience needed!!!",
		},
		Override: []string{
			"python", "developer", "frontend", "backend", "network",
			"security", "automation", "api", "devops", "cloud", "database",
			"server", "javascript", "linux",
		},
		HighPriority: []string{
			"urgent", "asap", "high priority", "well paid", "negotiable",
			"licensed", "certified",
		},
	}
}
