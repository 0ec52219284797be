package snapshot

import (
	"catanbench/game"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockState struct {
	prompt    game.Prompt
	board     *game.Board
	ps        map[string]any
	buildings map[game.Color]game.Buildings
}

func (s mockState) Colors() []game.Color {
	return []game.Color{game.Red, game.Blue, game.White, game.Orange}
}
func (s mockState) CurrentColor() game.Color              { return game.Red }
func (s mockState) NumTurns() int                         { return 17 }
func (s mockState) Prompt() game.Prompt                   { return s.prompt }
func (s mockState) Board() *game.Board                    { return s.board }
func (s mockState) PlayerState() map[string]any           { return s.ps }
func (s mockState) Buildings(c game.Color) game.Buildings { return s.buildings[c] }
func (s mockState) Bank() map[game.Resource]int           { return map[game.Resource]int{game.Wood: 15} }
func (s mockState) DevCardsLeft() int                     { return 20 }
func (s mockState) LastRoll() []int                       { return []int{3, 4} }

func testState() mockState {
	robber := game.CubeCoord{X: 0, Y: 0, Z: 0}
	return mockState{
		prompt: game.PlayTurn,
		board: &game.Board{
			Tiles: []game.TileRecord{
				{Coordinate: []int{0, 0, 0}},
				{Coordinate: []int{1, -1, 0}, Resource: "WHEAT", Number: 6},
				{Coordinate: []int{1, 0, -1}, Resource: "ORE", Number: 8},
			},
			Ports:  []game.PortRecord{{Resource: "ORE", Direction: 4, Nodes: []int{2}}},
			Robber: &robber,
		},
		ps: map[string]any{
			"P0_VICTORY_POINTS":        3,
			"P0_ACTUAL_VICTORY_POINTS": 4,
			"P0_WOOD_IN_HAND":          1,
			"P0_BRICK_IN_HAND":         1,
			"P0_ORE_IN_HAND":           2,
			"P0_VICTORY_POINT_IN_HAND": 1,
			"P0_KNIGHT_IN_HAND":        1,
			"P0_HAS_ROLLED":            true,
			"P1_VICTORY_POINTS":        6.0,
			"P1_WHEAT_IN_HAND":         "3",
			"P1_SHEEP_IN_HAND":         2,
			"P1_MONOPOLY_IN_HAND":      1,
			"P1_PLAYED_KNIGHT":         3,
			"P1_HAS_ARMY":              true,
			"P2_VICTORY_POINTS":        2,
			"P2_HAS_ROAD":              1,
			"P3_VICTORY_POINTS":        2,
		},
		buildings: map[game.Color]game.Buildings{
			game.Red:  {Settlements: []int{2, 7}, Roads: [][2]int{{2, 3}}},
			game.Blue: {Settlements: []int{10}, Cities: []int{12}},
		},
	}
}

func TestExtract(t *testing.T) {
	t.Run("game info", func(t *testing.T) {
		snap := NewSerializer(nil).Extract(testState(), game.Red)

		require.Equal(t, 17, snap.TurnNumber)
		require.Equal(t, game.Red, snap.CurrentColor)
		require.Equal(t, game.MidPhase, snap.GamePhase, "Highest public VP is 6")
		require.Nil(t, snap.WinningPlayer)
		require.Equal(t, "post_roll", snap.Turn.TurnPhase)
		require.Equal(t, "ROLL_OR_ACTION", snap.Turn.ExpectingAction)
		require.Equal(t, []int{3, 4}, snap.Bank.DiceRoll)
		require.Equal(t, 15, snap.Bank.ResourceBank[game.Wood])
		require.Equal(t, 0, snap.Bank.ResourceBank[game.Ore])
		require.Equal(t, 20, snap.Bank.DevelopmentCardsLeft)
	})

	t.Run("board state", func(t *testing.T) {
		s := NewSerializer(nil)
		snap := s.Extract(testState(), game.Red)

		require.Len(t, snap.Board.Tiles, 3)
		require.Equal(t, "CENTER-Desert", snap.Board.Tiles[0].Name)
		require.Equal(t, "DESERT", snap.Board.Tiles[0].Resource)
		require.True(t, snap.Board.Tiles[0].HasRobber)
		require.False(t, snap.Board.Tiles[1].HasRobber)
		require.Equal(t, "CENTER-Desert", snap.Board.RobberTile)
		require.ElementsMatch(t, []string{"E-Wheat6", "NE-Ore8"}, snap.Board.Tiles[0].Neighbors)
		require.NotEmpty(t, snap.Board.Intersections)
		require.Len(t, snap.Board.Edges, 3, "Three mutually adjacent tiles share three edges")
		require.Len(t, snap.Board.Ports, 1)
		require.Equal(t, game.White, *snap.Board.LongestRoadOwner)
		require.Equal(t, game.Blue, *snap.Board.LargestArmyOwner)
		require.Len(t, s.Mapper().Tiles(), 3, "Serializer should refresh its mapper")
	})

	t.Run("current player sees their own hand", func(t *testing.T) {
		snap := NewSerializer(nil).Extract(testState(), game.Red)
		me := snap.CurrentPlayer

		require.Equal(t, 4, me.VictoryPoints)
		require.Equal(t, 3, me.PublicVictoryPoints)
		require.Equal(t, 2, me.Resources[game.Ore])
		require.Equal(t, 4, me.ResourceCardsCount)
		require.Equal(t, 1, me.DevelopmentCards[game.VictoryPoint].InHand)
		require.Equal(t, 2, me.DevCardsCount)
		require.True(t, me.HasRolled)
		require.Equal(t, BuildingsView{
			Settlements:          []int{2, 7},
			Cities:               []int{},
			Roads:                [][2]int{{2, 3}},
			SettlementsAvailable: 3,
			CitiesAvailable:      4,
			RoadsAvailable:       14,
		}, me.Buildings)
		require.Equal(t, Affordability{Road: true}, me.CanAfford)
		require.Equal(t, []TradeOpportunity{{Type: "maritime", Offer: game.Ore, Ratio: "2:1"}}, snap.Strategy.TradeOpportunities,
			"A settlement on the ore port should allow 2:1 ore trades")
	})

	t.Run("opponents are public views", func(t *testing.T) {
		snap := NewSerializer(nil).Extract(testState(), game.Red)

		require.Len(t, snap.Opponents, 3)
		blue := snap.Opponents[0]
		require.Equal(t, game.Blue, blue.Color)
		require.Equal(t, 6, blue.PublicVictoryPoints)
		require.Equal(t, 5, blue.ResourceCardsCount)
		require.Equal(t, 1, blue.DevCardsCount)
		require.Equal(t, 3, blue.KnightsPlayed)
		require.True(t, blue.HasLargestArmy)
		require.Equal(t, []Threat{{Player: game.Blue, Level: "medium", VictoryPoints: 6}}, snap.Strategy.Threats)
	})

	t.Run("hidden information never reaches the JSON", func(t *testing.T) {
		snap := NewSerializer(nil).Extract(testState(), game.Red)

		raw, err := json.Marshal(snap)
		require.NoError(t, err)

		var tree map[string]any
		require.NoError(t, json.Unmarshal(raw, &tree))
		opponents := tree["opponents"].([]any)
		for _, op := range opponents {
			fields := op.(map[string]any)
			require.NotContains(t, fields, "resources")
			require.NotContains(t, fields, "development_cards")
			require.NotContains(t, fields, "victory_points", "Only public victory points may be shown")

			opRaw, err := json.Marshal(op)
			require.NoError(t, err)
			for _, r := range game.Resources {
				require.False(t, strings.Contains(string(opRaw), string(r)), "Opponent view leaks %s", r)
			}
			require.False(t, strings.Contains(string(opRaw), string(game.Monopoly)), "Opponent view leaks card types")
		}
	})

	t.Run("missing state parts", func(t *testing.T) {
		state := mockState{prompt: game.BuildInitialSettlement}

		snap := NewSerializer(nil).Extract(state, game.Orange)

		require.Equal(t, game.SetupPhase, snap.GamePhase)
		require.Empty(t, snap.Board.Tiles)
		require.Nil(t, snap.Board.Robber)
		require.Equal(t, 0, snap.CurrentPlayer.VictoryPoints)
		require.Equal(t, 5, snap.CurrentPlayer.Buildings.SettlementsAvailable)
		require.Equal(t, "build_initial_settlement", snap.Turn.TurnPhase)
		_, err := json.Marshal(snap)
		require.NoError(t, err)
	})

	t.Run("winner is detected from public points", func(t *testing.T) {
		state := testState()
		state.ps["P3_VICTORY_POINTS"] = 10

		snap := NewSerializer(nil).Extract(state, game.Red)

		require.NotNil(t, snap.WinningPlayer)
		require.Equal(t, game.Orange, *snap.WinningPlayer)
		require.Equal(t, game.LatePhase, snap.GamePhase)
	})
}
