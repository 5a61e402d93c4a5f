package stoic

import "strings"

// Medal is the ordinal tier describing how Stoic a proposed response is.
type Medal string

const (
	MedalNone   Medal = "none"
	MedalBronze Medal = "bronze"
	MedalSilver Medal = "silver"
	MedalGold   Medal = "gold"
)

const (
	MinScore = 0
	MaxScore = 3
)

var medalScores = map[Medal]int{
	MedalNone:   0,
	MedalBronze: 1,
	MedalSilver: 2,
	MedalGold:   3,
}

// Valid reports whether m is one of the four known tiers.
func (m Medal) Valid() bool {
	_, ok := medalScores[m]
	return ok
}

// Score returns the fixed score for the medal. Unknown medals score zero.
func (m Medal) Score() int {
	return medalScores[m]
}

// ParseMedal lower-cases and trims raw, falling back to MedalNone for unknown values.
func ParseMedal(raw string) Medal {
	medal := Medal(strings.ToLower(strings.TrimSpace(raw)))
	if !medal.Valid() {
		return MedalNone
	}
	return medal
}

// Classification is the interpreted verdict for a single scoring request.
type Classification struct {
	Medal       Medal    `json:"medal"`
	Score       int      `json:"score"`
	Explanation string   `json:"explanation"`
	Principles  []string `json:"principles"`
}

func newClassification(medal Medal, explanation string, principles []string) Classification {
	if !medal.Valid() {
		medal = MedalNone
	}
	if principles == nil {
		principles = []string{}
	}
	return Classification{
		Medal:       medal,
		Score:       medal.Score(),
		Explanation: explanation,
		Principles:  principles,
	}
}
