package progression

// rankNames are the display ranks for levels 1..12; higher levels keep the last one.
var rankNames = [...]string{
	"Unrepentant Slacker",
	"Persistent Slacker",
	"Recovering Slacker",
	"Depressed Drone",
	"Demoralised Drone",
	"Dead-Eye Drone",
	"Bored Attendant",
	"Resigned Attendant",
	"Obedient Attendant",
	"Competent Operative",
	"Engaged Operative",
	"Committed Operative",
}

// LevelFor maps cumulative XP to a level. Level L is reached once
// xp >= 50*(L-1)^2, so 0 XP is level 1, 50 XP level 2 and 200 XP level 3.
func LevelFor(xp int) int {
	level := 1
	for xp >= 50*level*level {
		level++
	}
	return level
}

func RankFor(level int) string {
	idx := min(level-1, len(rankNames)-1)
	if idx < 0 {
		idx = 0
	}
	return rankNames[idx]
}
