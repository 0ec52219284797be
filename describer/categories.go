package describer

import "catanbench/game"

type Category string

const (
	Building         Category = "building"
	Trading          Category = "trading"
	DevelopmentCards Category = "development_cards"
	GameFlow         Category = "game_flow"
	Special          Category = "special"
)

// CategoryOrder is the order categories are presented in.
var CategoryOrder = []Category{Building, Trading, DevelopmentCards, GameFlow, Special}

func categoryOf(mv game.Move) Category {
	switch mv.(type) {
	case game.BuildSettlement, game.BuildCity, game.BuildRoad:
		return Building
	case game.MaritimeTrade, game.OfferTrade, game.AcceptTrade, game.RejectTrade,
		game.ConfirmTrade, game.CancelTrade:
		return Trading
	case game.BuyDevelopmentCard, game.PlayKnight, game.PlayYearOfPlenty,
		game.PlayMonopoly, game.PlayRoadBuilding:
		return DevelopmentCards
	case game.Roll, game.EndTurn:
		return GameFlow
	}
	return Special
}

// Categories buckets move indices by category. Empty buckets are omitted.
func Categories(moves []game.Move) map[Category][]int {
	result := map[Category][]int{}
	for i, mv := range moves {
		c := categoryOf(mv)
		result[c] = append(result[c], i)
	}
	return result
}

// Advice returns short strategic hints for the moves on offer in the given phase.
func Advice(moves []game.Move, phase game.Phase) []string {
	has := map[game.MoveKind]bool{}
	for _, mv := range moves {
		if mv != nil {
			has[mv.Kind()] = true
		}
	}

	var advice []string
	switch phase {
	case game.SetupPhase:
		if has[game.BuildSettlementKind] {
			advice = append(advice, "Setup: pick spots touching several high-probability numbers (6 and 8 are best) and a mix of resources")
		}
		if has[game.BuildRoadKind] {
			advice = append(advice, "Point your first roads towards the next free settlement spot")
		}
	case game.EarlyPhase:
		if has[game.BuildSettlementKind] {
			advice = append(advice, "Early game: Focus on expanding with settlements to secure resources")
		}
		if has[game.BuildRoadKind] {
			advice = append(advice, "Build roads to secure good settlement spots before opponents")
		}
	case game.MidPhase:
		if has[game.BuildCityKind] {
			advice = append(advice, "Mid game: Upgrade settlements to cities for double resource production")
		}
		if has[game.BuyDevelopmentCardKind] {
			advice = append(advice, "Consider development cards for victory points and strategic advantages")
		}
	case game.LatePhase:
		if has[game.BuyDevelopmentCardKind] {
			advice = append(advice, "Late game: Development cards may provide the final victory points needed")
		}
		advice = append(advice, "Focus on actions that directly lead to victory points")
	}

	if has[game.MaritimeTradeKind] || has[game.OfferTradeKind] {
		advice = append(advice, "Consider trading to get resources needed for high-value buildings")
	}
	if has[game.MoveRobberKind] {
		advice = append(advice, "Place the robber on a productive tile of the leading opponent")
	}
	return advice
}
