package agent

import (
	"catanbench/board"
	"catanbench/describer"
	"catanbench/game"
	"catanbench/snapshot"
	"encoding/json"
	"fmt"
	"strings"
)

const rulesSummary = `# SETTLERS OF CATAN
You are playing Catan against other players. The first player to reach 10 victory points wins.

Victory points: settlement 1, city 2, Longest Road (5+ connected roads) 2, Largest Army (3+ knights played) 2, Victory Point card 1.
Building costs: road = 1 WOOD + 1 BRICK; settlement = 1 WOOD + 1 BRICK + 1 SHEEP + 1 WHEAT; city = 3 ORE + 2 WHEAT; development card = 1 SHEEP + 1 WHEAT + 1 ORE.
Settlements need a free intersection at least two edges away from any other building and, after setup, a connecting road of yours.
Each turn starts with a dice roll. Tiles with the rolled number produce for adjacent buildings, except the tile holding the robber.
A 7 moves the robber; everyone holding more than 7 cards discards half.
Maritime trades are 4:1 by default, 3:1 at a generic port and 2:1 at a matching resource port.

Board locations use axial coordinates (q,r). Intersections are named I<n>, edges E<n>, tiles by direction from the centre with their resource and number.`

const decisionGuide = `# DECISION
Assess your victory points, resources and what you can build now. Identify the opponent closest to winning.
Weigh the immediate benefit, long-term value and opportunity cost of each action, then pick the one that best improves your chance to win.`

const replyContract = `You must respond with a JSON object containing:
{"action_index": <integer>, "reasoning": "<short explanation>"}

Where action_index is the number of the action you choose from the list above (0 to %d).`

func buildPrompt(snap snapshot.Snapshot, mapper *board.Mapper, mapping describer.Mapping, moves []game.Move) (string, error) {
	state, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize game state: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(rulesSummary)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "You are playing %s.\n\n", snap.CurrentPlayer.Color)

	sb.WriteString(mapper.Summary())
	sb.WriteString("\n\n# CURRENT GAME STATE\n")
	sb.Write(state)

	sb.WriteString("\n\n# AVAILABLE ACTIONS\n")
	for _, line := range mapping.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	categories := describer.Categories(moves)
	sb.WriteString("\n# ACTION CATEGORIES\n")
	for _, category := range describer.CategoryOrder {
		indices, ok := categories[category]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", category, joinInts(indices))
	}

	if advice := describer.Advice(moves, snap.GamePhase); len(advice) > 0 {
		sb.WriteString("\n# STRATEGIC NOTES\n")
		for _, line := range advice {
			sb.WriteString("- ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	sb.WriteString("\n")
	sb.WriteString(decisionGuide)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, replyContract, len(moves)-1)
	return sb.String(), nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
