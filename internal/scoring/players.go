package scoring

import (
	"strings"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
)

// NormalizePlayers maps raw participants to the canonical player shape. The result is never nil.
func NormalizePlayers(raw []RawPlayer) []live.Player {
	out := make([]live.Player, 0, len(raw))
	for _, p := range raw {
		out = append(out, NormalizePlayer(p))
	}
	return out
}

// NormalizePlayer trims names and derives the display forms.
func NormalizePlayer(p RawPlayer) live.Player {
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)

	initial := ""
	if first != "" && last != "" {
		r := []rune(first)
		initial = string(r[0]) + ". " + last
	}

	return live.Player{
		ID:              p.ID.String(),
		FirstName:       first,
		LastName:        last,
		CountryCode:     p.CountryCode,
		FullName:        strings.TrimSpace(first + " " + last),
		InitialLastName: initial,
	}
}
