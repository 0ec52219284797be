// Package describer renders legal moves as indexed, human-readable text and
// keeps the reverse lookup for the current decision.
package describer

import (
	"catanbench/board"
	"catanbench/game"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Mapping is the per-decision index -> description table. Indices are dense
// and follow the order of the legal-move list it was built from.
type Mapping struct {
	descriptions []string
}

func (m Mapping) Len() int {
	return len(m.descriptions)
}

func (m Mapping) Description(i int) (string, bool) {
	if i < 0 || i >= len(m.descriptions) {
		return "", false
	}
	return m.descriptions[i], true
}

// Lookup returns the first index whose description matches exactly.
func (m Mapping) Lookup(description string) (int, bool) {
	for i, d := range m.descriptions {
		if d == description {
			return i, true
		}
	}
	return 0, false
}

// Lines renders "i: description" for each move, in index order.
func (m Mapping) Lines() []string {
	lines := make([]string, len(m.descriptions))
	for i, d := range m.descriptions {
		lines[i] = fmt.Sprintf("%d: %s", i, d)
	}
	return lines
}

// Describer turns legal-move lists into Mappings using one board's names.
type Describer struct {
	mapper  *board.Mapper
	current Mapping
}

func New(mapper *board.Mapper) *Describer {
	if mapper == nil {
		mapper = board.NewMapper()
	}
	return &Describer{mapper: mapper}
}

// Current is the mapping built by the last Describe call.
func (d *Describer) Current() Mapping {
	return d.current
}

// Describe discards the previous mapping and describes every move. Each index
// gets exactly one non-empty description, whatever the move data looks like.
func (d *Describer) Describe(moves []game.Move) Mapping {
	d.current = Mapping{descriptions: make([]string, len(moves))}
	for i, mv := range moves {
		d.current.descriptions[i] = d.describeSafely(mv, i)
	}
	return d.current
}

func (d *Describer) describeSafely(mv game.Move, i int) (desc string) {
	if mv == nil {
		return "UNKNOWN: <nil>"
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Msgf("failed to describe move %d %+v: %v", i, mv, r)
			desc = fallback(mv)
		}
	}()
	desc = d.describe(mv, i)
	if desc == "" {
		desc = fallback(mv)
	}
	return desc
}

func fallback(mv game.Move) string {
	return fmt.Sprintf("%s: %v", mv.Kind(), mv)
}

func (d *Describer) describe(mv game.Move, i int) string {
	switch m := mv.(type) {
	case game.Roll:
		return "Roll dice to start turn"
	case game.EndTurn:
		return "End turn"
	case game.BuildSettlement:
		return "Build settlement at " + d.intersection(i)
	case game.BuildCity:
		return "Upgrade to city at " + d.intersection(i)
	case game.BuildRoad:
		ids := d.mapper.EdgeIDs()
		if i < len(ids) {
			return "Build road: " + d.mapper.EdgeDescription(ids[i])
		}
		return fmt.Sprintf("Build road at edge %d (nodes %d-%d)", i, m.Edge[0], m.Edge[1])
	case game.BuyDevelopmentCard:
		return "Buy development card"
	case game.PlayKnight:
		return "Play a Knight development card"
	case game.PlayYearOfPlenty:
		names := make([]string, len(m.Resources))
		for j, r := range m.Resources {
			names[j] = string(r)
		}
		return "Play Year of Plenty card to gain " + strings.Join(names, " and ")
	case game.PlayMonopoly:
		return fmt.Sprintf("Play Monopoly card to collect all %s", m.Resource)
	case game.PlayRoadBuilding:
		return "Play Road Building card to build 2 roads"
	case game.MaritimeTrade:
		return maritime(m)
	case game.OfferTrade:
		return fmt.Sprintf("Offer trade: give %s for %s", counts(m.Give), counts(m.Want))
	case game.AcceptTrade:
		return fmt.Sprintf("Accept trade: give %s for %s", counts(m.Give), counts(m.Want))
	case game.RejectTrade:
		return "Reject the proposed trade"
	case game.ConfirmTrade:
		return fmt.Sprintf("Confirm trade with %s: give %s for %s", m.Partner, counts(m.Give), counts(m.Want))
	case game.CancelTrade:
		return "Cancel the trade offer"
	case game.MoveRobber:
		return d.robber(m)
	case game.Discard:
		if m.Counts == [5]int{} {
			return "Discard cards chosen at random (required due to 7 rolled)"
		}
		return fmt.Sprintf("Discard %s (required due to 7 rolled)", counts(m.Counts))
	case game.Unknown:
		return fmt.Sprintf("%s: %v", m.Type, m.Value)
	}
	return fallback(mv)
}

// intersection resolves a settlement spot by its position in the move list.
// The engine enumerates one build move per legal node, in node order, so the
// unmapped fallback names the list position too.
func (d *Describer) intersection(i int) string {
	id := fmt.Sprintf("I%d", i)
	if d.mapper.HasIntersection(id) {
		return d.mapper.IntersectionDescription(id)
	}
	if ports := d.mapper.PortAccess(id); len(ports) > 0 {
		return fmt.Sprintf("%s: Port settlement spot - Provides access to %s", id, strings.Join(ports, ", "))
	}
	return fmt.Sprintf("%s: Settlement spot (node %d)", id, i)
}

func (d *Describer) robber(m game.MoveRobber) string {
	a := board.CubeToAxial(m.Coordinate)
	desc := "Move robber to coordinate " + a.String()
	if tile, ok := d.mapper.Tile(a); ok {
		desc = "Move robber to " + tile.Name
	}
	if m.Victim != "" {
		desc += fmt.Sprintf(" and steal from %s", m.Victim)
	}
	return desc
}

func maritime(m game.MaritimeTrade) string {
	total := 0
	for _, n := range m.Give {
		total += n
	}
	offered, ratio := counts(m.Give), fmt.Sprintf("%d:1", total)
	if total == 0 {
		offered, ratio = "resources", "port"
	}
	return fmt.Sprintf("Trade %s for 1 %s at %s rate", offered, m.Want, ratio)
}

// counts renders a 5-slot resource block as "2 WOOD, 1 ORE", or "nothing".
func counts(block [5]int) string {
	var parts []string
	for i, n := range block {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, game.Resources[i]))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
