package resolver

import "strings"

// canonicalTerms maps common recipe phrasings to more specific
// database-style search terms. Generators write "chicken breast"; the
// database's best entry is described as "Chicken, broilers or fryers,
// breast, meat only, raw", which the plain phrase ranks poorly against.
var canonicalTerms = map[string]string{
	"chicken breast":  "chicken breast meat only raw",
	"chicken thigh":   "chicken thigh meat only raw",
	"ground beef":     "beef ground 90% lean raw",
	"ground turkey":   "turkey ground raw",
	"turkey breast":   "turkey breast meat only raw",
	"salmon":          "salmon atlantic farmed raw",
	"tuna":            "tuna light canned in water",
	"shrimp":          "shrimp mixed species raw",
	"egg":             "egg whole raw fresh",
	"eggs":            "egg whole raw fresh",
	"egg whites":      "egg white raw fresh",
	"greek yogurt":    "yogurt greek plain nonfat",
	"cottage cheese":  "cheese cottage lowfat 2%",
	"cheddar cheese":  "cheese cheddar",
	"milk":            "milk reduced fat 2%",
	"brown rice":      "rice brown long-grain raw",
	"white rice":      "rice white long-grain regular raw",
	"quinoa":          "quinoa uncooked",
	"oats":            "oats regular and quick unenriched",
	"oatmeal":         "oats regular and quick unenriched",
	"whole wheat bread": "bread whole-wheat commercially prepared",
	"pasta":           "pasta dry unenriched",
	"sweet potato":    "sweet potato raw unprepared",
	"potato":          "potatoes flesh and skin raw",
	"olive oil":       "oil olive salad or cooking",
	"coconut oil":     "oil coconut",
	"butter":          "butter without salt",
	"peanut butter":   "peanut butter smooth style",
	"almonds":         "nuts almonds",
	"walnuts":         "nuts walnuts english",
	"avocado":         "avocados raw all commercial varieties",
	"banana":          "bananas raw",
	"apple":           "apples raw with skin",
	"spinach":         "spinach raw",
	"broccoli":        "broccoli raw",
	"black beans":     "beans black mature seeds cooked boiled",
	"chickpeas":       "chickpeas garbanzo beans mature seeds cooked boiled",
	"lentils":         "lentils mature seeds cooked boiled",
	"tofu":            "tofu firm prepared with calcium sulfate",
	"honey":           "honey",
}

// canonicalQuery returns the search term to use for a normalized
// ingredient name, falling back to the name itself.
func canonicalQuery(normalized string) string {
	if term, ok := canonicalTerms[normalized]; ok {
		return term
	}
	// Try again with descriptors like "boneless skinless" stripped.
	stripped := stripDescriptors(normalized)
	if term, ok := canonicalTerms[stripped]; ok {
		return term
	}
	return normalized
}

var noiseDescriptors = []string{
	"boneless", "skinless", "fresh", "organic", "raw", "large", "medium",
	"small", "chopped", "diced", "sliced", "minced",
}

func stripDescriptors(name string) string {
	words := strings.Fields(name)
	kept := words[:0]
	for _, w := range words {
		noise := false
		for _, d := range noiseDescriptors {
			if w == d {
				noise = true
				break
			}
		}
		if !noise {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
