// Package tips holds the static copy shown next to the connection form.
package tips

import "math/rand/v2"

var tips = []string{
	"Tip: the colonists can't hear you, but the API can. Keep the game running while you connect.",
	"Tip: if the connection fails, check that the API mod is enabled in the mod list.",
	"Tip: a firewall prompt on first launch may block port 8765. Allow it for local networks.",
	"Tip: Randy Random does not control your network, but it sometimes feels like he does.",
	"Tip: use 127.0.0.1 instead of localhost if your system resolves localhost to IPv6.",
	"Tip: loading a save is required before the game state endpoint answers.",
}

var guide = []string{
	"Install the RimWorld REST API mod from the Steam Workshop.",
	"Enable the mod and restart RimWorld.",
	"Load a save or start a new colony.",
	"Enter the API URL above and press Connect.",
}

// Pick returns a random tip drawn with r.
func Pick(r *rand.Rand) string {
	return tips[r.IntN(len(tips))]
}

// All returns every tip.
func All() []string {
	return append([]string(nil), tips...)
}

// Guide returns the setup steps in order.
func Guide() []string {
	return append([]string(nil), guide...)
}
