package stoic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt(t *testing.T) {
	require.Equal(t, DefaultPersona, BuildSystemPrompt(""))
	require.Equal(t, "  Be Seneca.  ", BuildSystemPrompt("  Be Seneca.  "))
}

func TestBuildScoringPromptEmbedsInputsVerbatim(t *testing.T) {
	problem := "My coworker took credit for my work.\n<b>again</b>"
	proposed := strings.Repeat("I will focus on what I can do. ", 200)

	prompt := BuildScoringPrompt(problem, proposed)

	require.Contains(t, prompt, "Problem: "+problem+"\n")
	require.True(t, strings.HasSuffix(prompt, "ProposedResponse: "+proposed+"\n"))
}

func TestBuildScoringPromptDescribesRubric(t *testing.T) {
	prompt := BuildScoringPrompt("p", "r")

	gold := strings.Index(prompt, "Gold (3)")
	silver := strings.Index(prompt, "Silver (2)")
	bronze := strings.Index(prompt, "Bronze (1)")
	none := strings.Index(prompt, "None (0)")
	require.True(t, gold >= 0 && gold < silver && silver < bronze && bronze < none)

	for _, key := range []string{"medal(", "score(0..3)", "explanation(", "principles("} {
		require.Contains(t, prompt, key)
	}
	require.Contains(t, prompt, "No extra text.")
	require.Equal(t, prompt, BuildScoringPrompt("p", "r"))
}

func TestParseMedal(t *testing.T) {
	require.Equal(t, MedalGold, ParseMedal(" Gold "))
	require.Equal(t, MedalBronze, ParseMedal("BRONZE"))
	require.Equal(t, MedalNone, ParseMedal("diamond"))
	require.Equal(t, MedalNone, ParseMedal(""))
	require.Equal(t, 2, MedalSilver.Score())
	require.Equal(t, 0, Medal("diamond").Score())
}
