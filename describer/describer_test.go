package describer

import (
	"catanbench/board"
	"catanbench/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func twoTileMapper() *board.Mapper {
	m := board.NewMapper()
	m.Rebuild(&game.Board{
		Tiles: []game.TileRecord{
			{Coordinate: []int{0, 0, 0}},
			{Coordinate: []int{1, -1, 0}, Resource: "WHEAT", Number: 6},
		},
		Ports: []game.PortRecord{{Resource: "WHEAT", Direction: 3, Nodes: []int{0, 5}}},
	})
	return m
}

func TestDescribe(t *testing.T) {
	t.Run("every index gets one description", func(t *testing.T) {
		moves := []game.Move{
			game.Roll{},
			game.Unknown{Type: "TELEPORT", Value: []int{1, 2}},
			nil,
			game.BuildRoad{Edge: [2]int{99, 100}},
			game.Discard{},
		}

		mapping := New(nil).Describe(moves)

		require.Equal(t, len(moves), mapping.Len())
		descs := make([]string, len(moves))
		for i := range moves {
			desc, ok := mapping.Description(i)
			require.True(t, ok, "Index %d should be described", i)
			require.NotEmpty(t, desc, "Index %d should have a non-empty description", i)
			descs[i] = desc
		}
		_, ok := mapping.Description(len(moves))
		require.False(t, ok, "Indices stop at len(moves)-1")
		require.Equal(t, "TELEPORT: [1 2]", descs[1])
		require.Equal(t, "Build road at edge 3 (nodes 99-100)", descs[3], "Roads beyond the edge list fall back to raw ids")
	})

	t.Run("empty list", func(t *testing.T) {
		mapping := New(nil).Describe(nil)

		require.Equal(t, 0, mapping.Len())
		require.Empty(t, mapping.Lines())
		_, ok := mapping.Description(0)
		require.False(t, ok)
	})

	t.Run("maritime trade", func(t *testing.T) {
		mv := game.DecodeMove("MARITIME_TRADE", []any{4, 0, 0, 0, 0, "ORE"})

		desc, ok := New(nil).Describe([]game.Move{mv}).Description(0)

		require.True(t, ok)
		require.Equal(t, "Trade 4 WOOD for 1 ORE at 4:1 rate", desc)
	})

	t.Run("player trades", func(t *testing.T) {
		moves := []game.Move{
			game.OfferTrade{Give: [5]int{1, 1, 0, 0, 0}, Want: [5]int{}},
			game.AcceptTrade{Give: [5]int{0, 0, 0, 0, 2}, Want: [5]int{0, 0, 1, 0, 0}},
			game.ConfirmTrade{Give: [5]int{1, 0, 0, 0, 0}, Want: [5]int{0, 1, 0, 0, 0}, Partner: game.Blue},
		}

		lines := New(nil).Describe(moves).Lines()

		require.Equal(t, []string{
			"0: Offer trade: give 1 WOOD, 1 BRICK for nothing",
			"1: Accept trade: give 2 ORE for 1 SHEEP",
			"2: Confirm trade with BLUE: give 1 WOOD for 1 BRICK",
		}, lines)
	})

	t.Run("buildings use board names", func(t *testing.T) {
		d := New(twoTileMapper())
		moves := []game.Move{
			game.BuildSettlement{Node: 0},
			game.BuildCity{Node: 1},
			game.BuildSettlement{Node: 12},
			game.BuildSettlement{Node: 40},
			game.BuildSettlement{Node: 41},
			game.BuildSettlement{Node: 42},
		}

		mapping := d.Describe(moves)

		desc, _ := mapping.Description(0)
		require.Equal(t, "Build settlement at I0: Edge corner of CENTER-Desert and E-Wheat6 - Provides access to Wheat Port (2:1)", desc)
		desc, _ = mapping.Description(1)
		require.Equal(t, "Upgrade to city at I1: Edge of CENTER-Desert", desc)
		desc, _ = mapping.Description(3)
		require.Equal(t, "Build settlement at I3: Settlement spot (node 3)", desc, "Unmapped spots are numbered by list position, not engine node")
		desc, _ = mapping.Description(5)
		require.Equal(t, "Build settlement at I5: Port settlement spot - Provides access to Wheat Port (2:1)", desc)
	})

	t.Run("roads use the edge ordering", func(t *testing.T) {
		desc, _ := New(twoTileMapper()).Describe([]game.Move{game.BuildRoad{Edge: [2]int{0, 1}}}).Description(0)

		require.Equal(t, "Build road: E0: Road between CENTER-Desert and E-Wheat6", desc)
	})

	t.Run("robber", func(t *testing.T) {
		moves := []game.Move{
			game.MoveRobber{Coordinate: game.CubeCoord{X: 1, Y: -1, Z: 0}, Victim: game.Red},
			game.MoveRobber{Coordinate: game.CubeCoord{X: 2, Y: -1, Z: -1}},
		}

		lines := New(twoTileMapper()).Describe(moves).Lines()

		require.Equal(t, "0: Move robber to E-Wheat6 and steal from RED", lines[0])
		require.Equal(t, "1: Move robber to coordinate (2,-1)", lines[1])
	})

	t.Run("fixed templates", func(t *testing.T) {
		moves := []game.Move{
			game.EndTurn{},
			game.BuyDevelopmentCard{},
			game.PlayYearOfPlenty{Resources: []game.Resource{game.Wood, game.Ore}},
			game.PlayMonopoly{Resource: game.Wheat},
			game.Discard{Counts: [5]int{2, 0, 0, 1, 0}},
		}

		lines := New(nil).Describe(moves).Lines()

		require.Equal(t, []string{
			"0: End turn",
			"1: Buy development card",
			"2: Play Year of Plenty card to gain WOOD and ORE",
			"3: Play Monopoly card to collect all WHEAT",
			"4: Discard 2 WOOD, 1 WHEAT (required due to 7 rolled)",
		}, lines)
	})

	t.Run("describe replaces the previous mapping", func(t *testing.T) {
		d := New(nil)
		d.Describe([]game.Move{game.Roll{}, game.EndTurn{}})

		d.Describe([]game.Move{game.BuyDevelopmentCard{}})

		require.Equal(t, 1, d.Current().Len())
		i, ok := d.Current().Lookup("Buy development card")
		require.True(t, ok)
		require.Equal(t, 0, i)
		_, ok = d.Current().Lookup("End turn")
		require.False(t, ok, "Descriptions from earlier decisions should be gone")
	})
}

func TestCategories(t *testing.T) {
	moves := []game.Move{
		game.Roll{},
		game.BuildRoad{},
		game.MaritimeTrade{Want: game.Ore},
		game.PlayKnight{},
		game.MoveRobber{},
		game.EndTurn{},
	}

	got := Categories(moves)

	require.Equal(t, map[Category][]int{
		GameFlow:         {0, 5},
		Building:         {1},
		Trading:          {2},
		DevelopmentCards: {3},
		Special:          {4},
	}, got)
	require.NotContains(t, Categories([]game.Move{game.Roll{}}), Building, "Empty buckets should be omitted")
}

func TestAdvice(t *testing.T) {
	moves := []game.Move{game.BuildCity{}, game.MaritimeTrade{}}

	require.Equal(t, []string{
		"Mid game: Upgrade settlements to cities for double resource production",
		"Consider trading to get resources needed for high-value buildings",
	}, Advice(moves, game.MidPhase))
	require.Contains(t, Advice(nil, game.LatePhase), "Focus on actions that directly lead to victory points")
	require.Empty(t, Advice([]game.Move{game.Roll{}}, game.EarlyPhase))
}
