package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor_Thresholds(t *testing.T) {
	cases := map[int]int{
		0:   1,
		49:  1,
		50:  2,
		199: 2,
		200: 3,
		449: 3,
		450: 4,
	}
	for xp, want := range cases {
		assert.Equal(t, want, LevelFor(xp), "xp=%d", xp)
	}
}

func TestLevelFor_Monotonic(t *testing.T) {
	prev := LevelFor(0)
	for xp := 1; xp <= 20000; xp++ {
		got := LevelFor(xp)
		if got < prev {
			t.Fatalf("level dropped from %d to %d at xp=%d", prev, got, xp)
		}
		prev = got
	}
}

func TestRankFor_ClampsToLastRank(t *testing.T) {
	assert.Equal(t, "Unrepentant Slacker", RankFor(1))
	assert.Equal(t, "Recovering Slacker", RankFor(3))
	assert.Equal(t, "Committed Operative", RankFor(12))
	assert.Equal(t, "Committed Operative", RankFor(40))
	assert.Equal(t, "Unrepentant Slacker", RankFor(0))
}
