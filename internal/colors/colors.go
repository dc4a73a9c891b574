// Package colors maps the catalog's free-text color labels to display hex
// hints. Unknown labels pass through unresolved; the mapping is a UI hint,
// never part of pricing or checkout.
package colors

import "strings"

var colorMap = map[string]string{
	"burgundy":   "#800020",
	"wine":       "#722F37",
	"red":        "#FF0000",
	"rose":       "#FF007F",
	"fuchsia":    "#FF00FF",
	"coral":      "#FF7F50",
	"pink":       "#FFC0CB",
	"hot pink":   "#FF69B4",
	"navy":       "#000080",
	"navy blue":  "#000080",
	"blue":       "#0000FF",
	"royal blue": "#4169E1",
	"baby blue":  "#89CFF0",
	"teal":       "#008080",
	"cyan":       "#00FFFF",
	"sky blue":   "#87CEEB",
	"green":      "#008000",
	"lime":       "#00FF00",
	"olive":      "#808000",
	"mint":       "#98FF98",
	"army green": "#4B5320",
	"khaki":      "#F0E68C",
	"brown":      "#A52A2A",
	"coffee":     "#6F4E37",
	"camel":      "#C19A6B",
	"beige":      "#F5F5DC",
	"cream":      "#FFFDD0",
	"apricot":    "#FDD5B1",
	"tan":        "#D2B48C",
	"yellow":     "#FFFF00",
	"mustard":    "#FFDB58",
	"gold":       "#FFD700",
	"orange":     "#FFA500",
	"rust":       "#B7410E",
	"purple":     "#800080",
	"violet":     "#EE82EE",
	"lilac":      "#C8A2C8",
	"mauve":      "#E0B0FF",
	"black":      "#000000",
	"white":      "#FFFFFF",
	"grey":       "#808080",
	"gray":       "#808080",
	"silver":     "#C0C0C0",
	"bronze":     "#CD7F32",
	"champagne":  "#F7E7CE",
}

const multiHint = "multi"

// Hex resolves a color label to a hex hint. Multicolor labels resolve to the
// "multi" marker. The second return value is false for unknown labels.
func Hex(label string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return "", false
	}
	if strings.Contains(key, "multi") || strings.Contains(key, "mix") {
		return multiHint, true
	}
	hex, ok := colorMap[key]
	return hex, ok
}
