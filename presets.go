package photoenhance

import "strings"

// Preset is a named set of color adjustment parameters.
// Contrast is used as stored, not as a percentage.
type Preset struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	Warmth      float64 `json:"warmth"`
	Saturation  float64 `json:"saturation"`
}

// Slug returns a lowercase, dash separated form of the name.
func (p Preset) Slug() string {
	return strings.ToLower(strings.Join(strings.Fields(p.Name), "-"))
}

var catalog = [...]Preset{
	{
		Name:        "Auto Enhance",
		Description: "Balanced boost for clarity and detail.",
		Brightness:  1.05,
		Contrast:    1.10,
		Warmth:      0.02,
		Saturation:  1.08,
	},
	{
		Name:        "Golden Hour",
		Description: "Warm cinematic tones with soft highlights.",
		Brightness:  1.08,
		Contrast:    1.05,
		Warmth:      0.08,
		Saturation:  1.12,
	},
	{
		Name:        "Cool Studio",
		Description: "Clean, modern tones with crisp shadows.",
		Brightness:  1.02,
		Contrast:    1.12,
		Warmth:      -0.06,
		Saturation:  1.04,
	},
	{
		Name:        "Vintage Film",
		Description: "Muted palette with gentle contrast.",
		Brightness:  1.03,
		Contrast:    0.92,
		Warmth:      0.03,
		Saturation:  0.90,
	},
}

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(catalog))
	copy(out, catalog[:])
	return out
}

// PresetNames returns the names of the built-in presets in display order.
func PresetNames() []string {
	names := make([]string, 0, len(catalog))
	for _, p := range catalog {
		names = append(names, p.Name)
	}
	return names
}

// DefaultPreset returns the first preset of the catalog.
func DefaultPreset() Preset {
	return catalog[0]
}

// LookupPreset finds a preset by exact name, case-insensitive name or slug.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range catalog {
		if p.Name == name {
			return p, true
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Preset{}, false
	}
	for _, p := range catalog {
		if strings.EqualFold(p.Name, name) || p.Slug() == strings.ToLower(name) {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetByName returns the named preset, or the first preset if there is no match.
func PresetByName(name string) Preset {
	if p, ok := LookupPreset(name); ok {
		return p
	}
	return DefaultPreset()
}
