package schedule

import (
	"fmt"

	"flms/internal/league"
)

// byeID is the synthetic entry appended to odd rosters. Pairings that
// draw the bye produce no fixture; the team opposite it sits the round
// out.
const byeID = "__bye__"

// pairing is one unordered matchup drawn from the rotation circle. pos
// is the circle position it was drawn at, which the leg expansion uses
// to orient home/away.
type pairing struct {
	a, b string
	pos  int
}

// game is an oriented fixture-to-be, not yet assigned a week.
type game struct {
	home, away string
	leg        int
}

// paddedCount rounds a roster size up to even to account for the bye.
func paddedCount(teamCount int) int {
	if teamCount%2 != 0 {
		return teamCount + 1
	}
	return teamCount
}

// roundRobinPairings generates one single round-robin of pairings using
// the circle method: the first team stays fixed while the rest rotate
// one position per round, each entry pairing with the one opposite it.
// Every unordered pair appears exactly once across the returned
// paddedCount(len(ids))-1 rounds, and no team appears twice in a round.
func roundRobinPairings(ids []string) [][]pairing {
	circle := make([]string, len(ids), paddedCount(len(ids)))
	copy(circle, ids)
	if len(circle)%2 != 0 {
		circle = append(circle, byeID)
	}

	n := len(circle)
	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		var round []pairing
		for i := 0; i < n/2; i++ {
			a, b := circle[i], circle[n-1-i]
			if a == byeID || b == byeID {
				continue
			}
			round = append(round, pairing{a: a, b: b, pos: i})
		}
		rounds = append(rounds, round)

		// Rotate all but the fixed head: the last entry steps in
		// behind it, everything else shifts down.
		rotated := make([]string, 0, n)
		rotated = append(rotated, circle[0], circle[n-1])
		rotated = append(rotated, circle[1:n-1]...)
		circle = rotated
	}
	return rounds
}

// expandLegs turns a single round-robin into the full double round-robin.
// First-leg orientation alternates by round and circle position: pairing
// p of round r plays as drawn when (r+p.pos) is even, flipped when odd.
// The second leg repeats the first with every orientation reversed, so
// each team finishes the season with exactly teamCount-1 home games and
// teamCount-1 away games; no separate balancing pass is needed.
func expandLegs(firstLeg [][]pairing, teamCount int) ([][]game, error) {
	wantRounds := paddedCount(teamCount) - 1
	if len(firstLeg) != wantRounds {
		return nil, fmt.Errorf("%w: got %d rounds for %d teams, want %d",
			ErrRoundMismatch, len(firstLeg), teamCount, wantRounds)
	}

	rounds := make([][]game, 0, 2*wantRounds)
	for r, round := range firstLeg {
		oriented := make([]game, 0, len(round))
		for _, p := range round {
			if (r+p.pos)%2 == 0 {
				oriented = append(oriented, game{home: p.a, away: p.b, leg: league.LegFirst})
			} else {
				oriented = append(oriented, game{home: p.b, away: p.a, leg: league.LegFirst})
			}
		}
		rounds = append(rounds, oriented)
	}

	for r := 0; r < wantRounds; r++ {
		mirrored := make([]game, 0, len(rounds[r]))
		for _, g := range rounds[r] {
			mirrored = append(mirrored, game{home: g.away, away: g.home, leg: league.LegSecond})
		}
		rounds = append(rounds, mirrored)
	}
	return rounds, nil
}
