package game

// RoundScore breaks down a player's points for a single round by category
type RoundScore struct {
	Sashimi  int
	Dumpling int
	Eel      int
	Tofu     int
	Total    int
}

// dumplingPoints maps dumpling count to points; five or more score the max
var dumplingPoints = [...]int{0, 1, 3, 6, 10, 15}

// ScoreRound computes the score for one player's picks for the round just
// ended. It is a pure function of the picks: sashimi score in sets of
// three, dumplings on an escalating table, a single eel is a penalty, and
// too much tofu scores nothing.
func ScoreRound(picks []Card) RoundScore {
	var counts [5]int
	for _, c := range picks {
		if c >= Sashimi && c <= Tofu {
			counts[c]++
		}
	}

	var score RoundScore

	score.Sashimi = counts[Sashimi] / 3

	dumplings := counts[Dumpling]
	if dumplings >= len(dumplingPoints) {
		dumplings = len(dumplingPoints) - 1
	}
	score.Dumpling = dumplingPoints[dumplings]

	switch eels := counts[Eel]; {
	case eels == 1:
		score.Eel = -3
	case eels >= 2:
		score.Eel = 7
	}

	switch counts[Tofu] {
	case 0:
		score.Tofu = 0
	case 1:
		score.Tofu = 2
	case 2:
		score.Tofu = 6
	default:
		score.Tofu = 0
	}

	score.Total = score.Sashimi + score.Dumpling + score.Eel + score.Tofu
	return score
}
