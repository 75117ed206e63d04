package domain

// Preset is a named quick-connect address.
type Preset struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

var presets = []Preset{
	{Name: "local", Label: "localhost:8765", URL: "http://localhost:8765/api/v1"},
	{Name: "loopback", Label: "127.0.0.1:8765", URL: "http://127.0.0.1:8765/api/v1"},
}

// Presets returns the quick-connect presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
