package stoic

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretStrictReply(t *testing.T) {
	got, stage := InterpretWithStage(`{"medal":"gold","score":3,"explanation":"x","principles":["a"]}`)

	require.Equal(t, StageStrict, stage)
	require.Equal(t, Classification{Medal: MedalGold, Score: 3, Explanation: "x", Principles: []string{"a"}}, got)
}

func TestInterpretStrictRepairs(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Classification
	}{
		{
			name: "score above range repaired from medal",
			raw:  `{"medal":"silver","score":9,"explanation":"ok","principles":[]}`,
			want: Classification{Medal: MedalSilver, Score: 2, Explanation: "ok", Principles: []string{}},
		},
		{
			name: "negative score repaired from medal",
			raw:  `{"medal":"bronze","score":-4,"explanation":"meh"}`,
			want: Classification{Medal: MedalBronze, Score: 1, Explanation: "meh", Principles: []string{}},
		},
		{
			name: "medal is lower-cased",
			raw:  `{"medal":"GOLD","score":3,"explanation":"  padded  ","principles":["virtue","control"]}`,
			want: Classification{Medal: MedalGold, Score: 3, Explanation: "padded", Principles: []string{"virtue", "control"}},
		},
		{
			name: "unknown medal resets to none",
			raw:  `{"medal":"platinum","score":2,"explanation":"shiny"}`,
			want: Classification{Medal: MedalNone, Score: 0, Explanation: "shiny", Principles: []string{}},
		},
		{
			name: "score disagreeing with medal follows medal",
			raw:  `{"medal":"gold","score":1,"explanation":"x"}`,
			want: Classification{Medal: MedalGold, Score: 3, Explanation: "x", Principles: []string{}},
		},
		{
			name: "missing fields default",
			raw:  `{"medal":"silver"}`,
			want: Classification{Medal: MedalSilver, Score: 2, Explanation: "", Principles: []string{}},
		},
		{
			name: "empty object is none",
			raw:  `{}`,
			want: Classification{Medal: MedalNone, Score: 0, Explanation: "", Principles: []string{}},
		},
		{
			name: "null principles become empty",
			raw:  `{"medal":"bronze","score":1,"explanation":"e","principles":null}`,
			want: Classification{Medal: MedalBronze, Score: 1, Explanation: "e", Principles: []string{}},
		},
		{
			name: "string score is coerced",
			raw:  `{"medal":"silver","score":" 2 ","explanation":"s"}`,
			want: Classification{Medal: MedalSilver, Score: 2, Explanation: "s", Principles: []string{}},
		},
		{
			name: "float score is truncated",
			raw:  `{"medal":"gold","score":2.9,"explanation":"f"}`,
			want: Classification{Medal: MedalGold, Score: 3, Explanation: "f", Principles: []string{}},
		},
		{
			name: "non-string medal rendered as text",
			raw:  `{"medal":3,"score":3}`,
			want: Classification{Medal: MedalNone, Score: 0, Explanation: "", Principles: []string{}},
		},
		{
			name: "fenced json is unwrapped",
			raw:  "```json\n{\"medal\":\"silver\",\"score\":2,\"explanation\":\"fenced\",\"principles\":[\"acceptance\"]}\n```",
			want: Classification{Medal: MedalSilver, Score: 2, Explanation: "fenced", Principles: []string{"acceptance"}},
		},
		{
			name: "surrounding whitespace ignored",
			raw:  "\n  {\"medal\":\"none\",\"score\":0,\"explanation\":\"vent\"}  \n",
			want: Classification{Medal: MedalNone, Score: 0, Explanation: "vent", Principles: []string{}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, stage := InterpretWithStage(tc.raw)
			require.Equal(t, StageStrict, stage)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestInterpretFallsBackOnUnusableStructure(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		medal Medal
	}{
		{name: "null score", raw: `{"medal":"gold","score":null,"explanation":"accept"}`, medal: MedalSilver},
		{name: "word score", raw: `{"medal":"gold","score":"three"}`, medal: MedalNone},
		{name: "boolean score", raw: `{"medal":"gold","score":true}`, medal: MedalNone},
		{name: "object score", raw: `{"medal":"gold","score":{"value":3}}`, medal: MedalNone},
		{name: "principles not array", raw: `{"medal":"gold","score":3,"principles":"dichotomy of control"}`, medal: MedalGold},
		{name: "principles of numbers", raw: `{"medal":"gold","score":3,"principles":[1,2]}`, medal: MedalNone},
		{name: "top-level array", raw: `["gold",3]`, medal: MedalNone},
		{name: "top-level string", raw: `"try to be patient"`, medal: MedalBronze},
		{name: "trailing prose", raw: `{"medal":"gold","score":3} I hope this helps`, medal: MedalNone},
		{name: "truncated json", raw: `{"medal":"gold","score":`, medal: MedalNone},
		{name: "empty", raw: ``, medal: MedalNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, stage := InterpretWithStage(tc.raw)
			require.Equal(t, StageHeuristic, stage)
			require.Equal(t, tc.medal, got.Medal)
			require.Equal(t, tc.medal.Score(), got.Score)
			require.Equal(t, tc.raw, got.Explanation)
			require.NotNil(t, got.Principles)
			require.Empty(t, got.Principles)
		})
	}
}

func TestInterpretHeuristicPriority(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		medal Medal
	}{
		{name: "silver phrases", raw: "I accept this and stay calm", medal: MedalSilver},
		{name: "gold beats silver", raw: "I accept it and stay calm, remembering the dichotomy of control", medal: MedalGold},
		{name: "within my control", raw: "Only my reaction is WITHIN MY CONTROL.", medal: MedalGold},
		{name: "not in my control", raw: "Traffic is not in my control", medal: MedalGold},
		{name: "focus on what i can do", raw: "I will Focus On What I Can Do", medal: MedalSilver},
		{name: "silver beats bronze", raw: "I shouldn't get mad, I should stay calm", medal: MedalSilver},
		{name: "bronze", raw: "I shouldn't get mad at him", medal: MedalBronze},
		{name: "try to be patient", raw: "I'll try to be patient", medal: MedalBronze},
		{name: "gibberish", raw: "qwerty zxcvb asdf", medal: MedalNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Interpret(tc.raw)
			assert.Equal(t, tc.medal, got.Medal)
			assert.Equal(t, tc.medal.Score(), got.Score)
			assert.Equal(t, tc.raw, got.Explanation)
			assert.Equal(t, []string{}, got.Principles)
		})
	}
}

func TestInterpretTruncatesFallbackExplanation(t *testing.T) {
	raw := strings.Repeat("abcde", 100)
	require.Len(t, raw, 500)

	got := Interpret(raw)

	require.Equal(t, MedalNone, got.Medal)
	require.Len(t, got.Explanation, MaxFallbackExplanation)
	require.Equal(t, raw[:MaxFallbackExplanation], got.Explanation)
}

func TestInterpretTruncatesByCharacter(t *testing.T) {
	raw := strings.Repeat("é", 250)

	got := Interpret(raw)

	require.Equal(t, strings.Repeat("é", MaxFallbackExplanation), got.Explanation)
}

func TestInterpretAlwaysConsistent(t *testing.T) {
	inputs := []string{
		``,
		`null`,
		`{"medal":"silver","score":9}`,
		`{"medal":"gold","score":0}`,
		`{"medal":"bronze","score":"2"}`,
		`{"medal":"","score":1e300}`,
		`{"medal":"gold","score":-1e300}`,
		`{"medal":"SILVER","score":2.5,"principles":["a","b"]}`,
		"```\n{\"medal\":\"gold\"}\n```",
		"``````",
		"I accept that this is within my control",
		strings.Repeat("x", 1000),
		"\xff\xfe invalid utf8 stay calm",
	}

	for _, raw := range inputs {
		got := Interpret(raw)
		require.True(t, got.Medal.Valid(), "medal %q for %q", got.Medal, raw)
		require.GreaterOrEqual(t, got.Score, MinScore)
		require.LessOrEqual(t, got.Score, MaxScore)
		require.Equal(t, got.Medal.Score(), got.Score, "inconsistent for %q", raw)
		require.NotNil(t, got.Principles)
	}
}

func TestClassificationEncodesEmptyPrinciplesAsArray(t *testing.T) {
	payload, err := json.Marshal(Interpret("nothing stoic here"))
	require.NoError(t, err)
	require.JSONEq(t, `{"medal":"none","score":0,"explanation":"nothing stoic here","principles":[]}`, string(payload))
}

func TestCoerceScore(t *testing.T) {
	cases := []struct {
		raw   string
		want  int
		valid bool
	}{
		{raw: `2`, want: 2, valid: true},
		{raw: `"3"`, want: 3, valid: true},
		{raw: `"+1"`, want: 1, valid: true},
		{raw: `1.99`, want: 1, valid: true},
		{raw: `-0.5`, want: 0, valid: true},
		{raw: `42`, want: MaxScore + 1, valid: true},
		{raw: `-7`, want: MinScore - 1, valid: true},
		{raw: `"2.0"`, valid: false},
		{raw: `"two"`, valid: false},
		{raw: `null`, valid: false},
		{raw: `true`, valid: false},
		{raw: `[3]`, valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := coerceScore(json.RawMessage(tc.raw))
			require.Equal(t, tc.valid, ok)
			if tc.valid {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestUnwrapCodeFence(t *testing.T) {
	require.Equal(t, `{"a":1}`, unwrapCodeFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, unwrapCodeFence("```{\"a\":1}```"))
	require.Equal(t, `{"a":1}`, unwrapCodeFence(`  {"a":1}  `))
	require.Equal(t, "plain text", unwrapCodeFence("plain text"))
}
