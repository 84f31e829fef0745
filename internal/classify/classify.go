// Package classify maps detected object labels to waste categories. A real
// deployment would put a vision model in front of this; the heuristic only
// needs the labels.
package classify

import "strings"

const (
	CategoryBiodegradable    = "biodegradable"
	CategoryNonBiodegradable = "non-biodegradable"
	CategoryRecyclable       = "recyclable"
	CategorySpecial          = "special"
	CategoryHazardous        = "hazardous"
	CategoryMixed            = "mixed"
)

// objectToCategory maps common object labels to waste categories
var objectToCategory = map[string]string{
	// Biodegradable
	"banana":    CategoryBiodegradable,
	"apple":     CategoryBiodegradable,
	"food":      CategoryBiodegradable,
	"vegetable": CategoryBiodegradable,
	"fruit":     CategoryBiodegradable,
	"organic":   CategoryBiodegradable,
	"compost":   CategoryBiodegradable,
	"leaf":      CategoryBiodegradable,
	"plant":     CategoryBiodegradable,

	// Recyclable
	"bottle":    CategoryRecyclable,
	"can":       CategoryRecyclable,
	"plastic":   CategoryRecyclable,
	"paper":     CategoryRecyclable,
	"cardboard": CategoryRecyclable,
	"metal":     CategoryRecyclable,
	"glass":     CategoryRecyclable,
	"newspaper": CategoryRecyclable,
	"magazine":  CategoryRecyclable,

	// Non-biodegradable
	"bag":       CategoryNonBiodegradable,
	"container": CategoryNonBiodegradable,
	"wrapper":   CategoryNonBiodegradable,
	"styrofoam": CategoryNonBiodegradable,
	"foam":      CategoryNonBiodegradable,

	// Special / hazardous
	"battery":    CategorySpecial,
	"electronic": CategorySpecial,
	"medicine":   CategorySpecial,
	"chemical":   CategoryHazardous,
	"oil":        CategoryHazardous,
}

// categoryAdjectives lists descriptive tags per category, most typical first
var categoryAdjectives = map[string][]string{
	CategoryBiodegradable:    {"wet", "organic", "food waste", "compostable"},
	CategoryNonBiodegradable: {"dry", "plastic", "synthetic"},
	CategoryRecyclable:       {"clean", "dry", "reusable"},
	CategorySpecial:          {"electronic", "hazardous", "medical"},
	CategoryHazardous:        {"toxic", "chemical", "dangerous"},
}

type Prediction struct {
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Adjective   string  `json:"adjective"`
	Description string  `json:"description"`
}

// Predict scores the labels against the object map and returns the
// best-matching category. Unknown or empty input falls back to "mixed".
func Predict(labels []string) Prediction {
	if len(labels) == 0 {
		return Prediction{
			Category:    CategoryMixed,
			Confidence:  0.5,
			Adjective:   CategoryMixed,
			Description: "Unable to determine waste type",
		}
	}

	scores := map[string]int{}
	for _, label := range labels {
		lower := strings.ToLower(label)
		for object, category := range objectToCategory {
			if strings.Contains(lower, object) || strings.Contains(object, lower) {
				scores[category]++
				break
			}
		}
	}

	maxScore := 0
	category := CategoryMixed
	for _, c := range []string{CategoryBiodegradable, CategoryNonBiodegradable, CategoryRecyclable, CategorySpecial, CategoryHazardous} {
		if scores[c] > maxScore {
			maxScore = scores[c]
			category = c
		}
	}

	confidence := 0.5
	if maxScore > 0 {
		confidence = float64(maxScore) / float64(len(labels))
		if confidence > 0.95 {
			confidence = 0.95
		}
	}

	adjective := CategoryMixed
	if adjectives := categoryAdjectives[category]; len(adjectives) > 0 {
		adjective = adjectives[0]
	}

	description := "Detected as " + category + " waste based on image analysis"
	if category == CategoryMixed {
		description = "Unable to determine waste type"
	}

	return Prediction{
		Category:    category,
		Confidence:  confidence,
		Adjective:   adjective,
		Description: description,
	}
}
