// Package convert turns free-text ingredient amounts into gram weights
// with a qualitative confidence grade.
package convert

import (
	"strconv"
	"strings"

	"github.com/platewise/nutrition-engine/internal/model"
)

// Converter converts a textual amount plus unit into grams. The
// confidence grade tells the caller how much to trust the result.
type Converter interface {
	Convert(amount, unit, ingredient string) model.ConversionResult
}

// fallbackGrams is used when nothing about the amount can be parsed.
const fallbackGrams = 100.0

type unitKind string

const (
	unitKindMass   unitKind = "mass"
	unitKindVolume unitKind = "volume"
	unitKindPiece  unitKind = "piece"
)

type unitDef struct {
	kind   unitKind
	toBase float64 // grams for mass, milliliters for volume
}

var unitTable = map[string]unitDef{
	// mass (base = g)
	"mg":     {kind: unitKindMass, toBase: 0.001},
	"g":      {kind: unitKindMass, toBase: 1},
	"gram":   {kind: unitKindMass, toBase: 1},
	"grams":  {kind: unitKindMass, toBase: 1},
	"kg":     {kind: unitKindMass, toBase: 1000},
	"oz":     {kind: unitKindMass, toBase: 28.349523125},
	"ounce":  {kind: unitKindMass, toBase: 28.349523125},
	"ounces": {kind: unitKindMass, toBase: 28.349523125},
	"lb":     {kind: unitKindMass, toBase: 453.59237},
	"lbs":    {kind: unitKindMass, toBase: 453.59237},
	"pound":  {kind: unitKindMass, toBase: 453.59237},
	"pounds": {kind: unitKindMass, toBase: 453.59237},

	// volume (base = ml)
	"ml":          {kind: unitKindVolume, toBase: 1},
	"l":           {kind: unitKindVolume, toBase: 1000},
	"liter":       {kind: unitKindVolume, toBase: 1000},
	"tsp":         {kind: unitKindVolume, toBase: 4.92892159375},
	"teaspoon":    {kind: unitKindVolume, toBase: 4.92892159375},
	"teaspoons":   {kind: unitKindVolume, toBase: 4.92892159375},
	"tbsp":        {kind: unitKindVolume, toBase: 14.78676478125},
	"tablespoon":  {kind: unitKindVolume, toBase: 14.78676478125},
	"tablespoons": {kind: unitKindVolume, toBase: 14.78676478125},
	"cup":         {kind: unitKindVolume, toBase: 236.5882365},
	"cups":        {kind: unitKindVolume, toBase: 236.5882365},
	"fl oz":       {kind: unitKindVolume, toBase: 29.5735295625},
	"fl-oz":       {kind: unitKindVolume, toBase: 29.5735295625},
	"pint":        {kind: unitKindVolume, toBase: 473.176473},
	"quart":       {kind: unitKindVolume, toBase: 946.352946},

	// pieces (weight depends on the ingredient)
	"piece":  {kind: unitKindPiece},
	"pieces": {kind: unitKindPiece},
	"whole":  {kind: unitKindPiece},
	"small":  {kind: unitKindPiece},
	"medium": {kind: unitKindPiece},
	"large":  {kind: unitKindPiece},
	"clove":  {kind: unitKindPiece},
	"cloves": {kind: unitKindPiece},
	"slice":  {kind: unitKindPiece},
	"slices": {kind: unitKindPiece},
	"":       {kind: unitKindPiece},
}

// densityTable maps ingredient keywords to g/ml for volume conversion.
// Water density (1.0) is the default for anything not listed.
var densityTable = map[string]float64{
	"oil":     0.92,
	"butter":  0.91,
	"flour":   0.53,
	"sugar":   0.85,
	"honey":   1.42,
	"syrup":   1.37,
	"rice":    0.85,
	"oats":    0.41,
	"oatmeal": 0.41,
	"quinoa":  0.74,
	"milk":    1.03,
	"yogurt":  1.04,
	"cream":   1.01,
	"cheese":  0.96,
	"peanut butter": 1.09,
}

// pieceWeights maps ingredient keywords to a typical edible weight in
// grams for one piece.
var pieceWeights = map[string]float64{
	"egg":          50,
	"banana":       118,
	"apple":        182,
	"orange":       131,
	"avocado":      150,
	"potato":       213,
	"sweet potato": 130,
	"onion":        110,
	"garlic":       3,
	"carrot":       61,
	"tomato":       123,
	"bell pepper":  119,
	"pepper":       119,
	"lemon":        58,
	"lime":         44,
	"cucumber":     201,
	"bread":        25,
	"tortilla":     45,
	"bagel":        95,
	"zucchini":     196,
}

// GramConverter is the default Converter implementation.
type GramConverter struct{}

// NewGramConverter creates the default converter.
func NewGramConverter() *GramConverter {
	return &GramConverter{}
}

// Convert parses the amount text, resolves the unit to grams and grades
// the result. Unparseable amounts or unknown units degrade to a low
// confidence 100 g guess rather than failing.
func (c *GramConverter) Convert(amount, unit, ingredient string) model.ConversionResult {
	qty, ok := ParseAmount(amount)
	if !ok {
		return model.ConversionResult{Grams: fallbackGrams, Confidence: model.ConfidenceLow}
	}

	u := strings.ToLower(strings.TrimSpace(unit))
	def, known := unitTable[u]
	if !known {
		return model.ConversionResult{Grams: fallbackGrams * qty, Confidence: model.ConfidenceLow}
	}

	switch def.kind {
	case unitKindMass:
		return model.ConversionResult{Grams: qty * def.toBase, Confidence: model.ConfidenceHigh}

	case unitKindVolume:
		density, matched := lookupKeyword(densityTable, ingredient)
		if !matched {
			density = 1.0
			return model.ConversionResult{Grams: qty * def.toBase * density, Confidence: model.ConfidenceMedium}
		}
		return model.ConversionResult{Grams: qty * def.toBase * density, Confidence: model.ConfidenceHigh}

	default: // piece
		weight, matched := lookupKeyword(pieceWeights, ingredient)
		if !matched {
			return model.ConversionResult{Grams: fallbackGrams * qty, Confidence: model.ConfidenceLow}
		}
		return model.ConversionResult{Grams: qty * weight, Confidence: model.ConfidenceMedium}
	}
}

// lookupKeyword finds the longest table key contained in the ingredient name.
func lookupKeyword(table map[string]float64, ingredient string) (float64, bool) {
	name := strings.ToLower(ingredient)
	bestLen := 0
	var bestVal float64
	for key, val := range table {
		if strings.Contains(name, key) && len(key) > bestLen {
			bestLen = len(key)
			bestVal = val
		}
	}
	return bestVal, bestLen > 0
}

// ParseAmount extracts a quantity from free text. It handles plain
// numbers, fractions ("1/2"), mixed numbers ("1 1/2") and ranges
// ("2-3", midpoint). Returns false when nothing numeric can be read.
func ParseAmount(text string) (float64, bool) {
	s := strings.TrimSpace(strings.ToLower(text))
	if s == "" {
		return 0, false
	}

	// Range: take the midpoint.
	if lo, hi, ok := splitRange(s); ok {
		a, aok := ParseAmount(lo)
		b, bok := ParseAmount(hi)
		if aok && bok {
			return (a + b) / 2, true
		}
	}

	// Mixed number: "1 1/2".
	fields := strings.Fields(s)
	if len(fields) >= 2 && strings.Contains(fields[1], "/") {
		whole, wok := parseNumber(fields[0])
		frac, fok := parseFraction(fields[1])
		if wok && fok {
			return whole + frac, true
		}
	}

	if v, ok := parseFraction(fields[0]); ok {
		return v, true
	}
	if v, ok := parseNumber(fields[0]); ok {
		return v, true
	}
	return 0, false
}

func splitRange(s string) (string, string, bool) {
	for _, sep := range []string{"-", "–", " to "} {
		if i := strings.Index(s, sep); i > 0 {
			return s[:i], s[i+len(sep):], true
		}
	}
	return "", "", false
}

func parseFraction(s string) (float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	num, nok := parseNumber(parts[0])
	den, dok := parseNumber(parts[1])
	if !nok || !dok || den == 0 {
		return 0, false
	}
	return num / den, true
}

func parseNumber(s string) (float64, bool) {
	// Strip trailing non-numeric noise like "2x" or "3,".
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
