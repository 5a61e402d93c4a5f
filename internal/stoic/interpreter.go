package stoic

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Stage identifies which interpretation path produced a Classification.
type Stage string

const (
	StageStrict    Stage = "strict"
	StageHeuristic Stage = "heuristic"
)

// MaxFallbackExplanation is the number of characters of the raw reply kept
// as the explanation when the reply could not be parsed.
const MaxFallbackExplanation = 200

//go:embed reply.schema.json
var replySchemaSource string

var replySchema = jsonschema.MustCompileString("https://stoic-companion.local/reply.schema.json", replySchemaSource)

// errNotStructured marks every strict-parse failure; the cause is wrapped for logging only.
var errNotStructured = errors.New("reply is not a structured classification")

// heuristicTiers are checked in order; the first tier with a matching phrase wins.
var heuristicTiers = []struct {
	medal   Medal
	phrases []string
}{
	{medal: MedalGold, phrases: []string{"dichotomy of control", "within my control", "not in my control"}},
	{medal: MedalSilver, phrases: []string{"stay calm", "accept", "focus on what i can do"}},
	{medal: MedalBronze, phrases: []string{"shouldn't get mad", "try to be patient"}},
}

type replyPayload struct {
	Medal       json.RawMessage `json:"medal"`
	Score       json.RawMessage `json:"score"`
	Explanation json.RawMessage `json:"explanation"`
	Principles  []string        `json:"principles"`
}

// Interpret turns raw model output into a Classification. It never fails:
// replies that are not a well-formed classification degrade to keyword matching.
func Interpret(raw string) Classification {
	classification, _ := InterpretWithStage(raw)
	return classification
}

// InterpretWithStage is Interpret but also reports which stage produced the result.
func InterpretWithStage(raw string) (Classification, Stage) {
	classification, err := parseStrict(raw)
	if err == nil {
		return classification, StageStrict
	}
	return classifyHeuristic(raw), StageHeuristic
}

func parseStrict(raw string) (Classification, error) {
	body := []byte(unwrapCodeFence(raw))

	document, err := decodeSingle(body)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", errNotStructured, err)
	}

	if err := replySchema.Validate(document); err != nil {
		return Classification{}, fmt.Errorf("%w: %v", errNotStructured, err)
	}

	var payload replyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Classification{}, fmt.Errorf("%w: %v", errNotStructured, err)
	}

	medal := MedalNone
	if text, ok := textValue(payload.Medal); ok {
		medal = ParseMedal(text)
	}

	// The medal is authoritative: newClassification derives the score from it,
	// which repairs out-of-range and disagreeing scores alike. A score that is
	// present but not an integer still rejects the whole reply.
	if len(payload.Score) > 0 {
		if _, ok := coerceScore(payload.Score); !ok {
			return Classification{}, fmt.Errorf("%w: score %s is not an integer", errNotStructured, payload.Score)
		}
	}

	explanation := ""
	if text, ok := textValue(payload.Explanation); ok {
		explanation = strings.TrimSpace(text)
	}

	return newClassification(medal, explanation, payload.Principles), nil
}

func classifyHeuristic(raw string) Classification {
	text := strings.ToLower(raw)

	medal := MedalNone
	for _, tier := range heuristicTiers {
		if containsAny(text, tier.phrases) {
			medal = tier.medal
			break
		}
	}

	return newClassification(medal, truncateRunes(raw, MaxFallbackExplanation), nil)
}

// decodeSingle decodes exactly one JSON value from body, rejecting trailing data.
func decodeSingle(body []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return document, nil
}

// coerceScore accepts integers, finite floats (truncated toward zero) and
// integer strings.
func coerceScore(raw json.RawMessage) (int, bool) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return 0, false
	}

	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return clampInt64(i), true
		}
		f, err := v.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		truncated := math.Trunc(f)
		switch {
		case truncated > MaxScore:
			return MaxScore + 1, true
		case truncated < MinScore:
			return MinScore - 1, true
		}
		return int(truncated), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return clampInt64(i), true
	default:
		return 0, false
	}
}

// clampInt64 keeps out-of-range scores out of range without overflowing int.
func clampInt64(i int64) int {
	switch {
	case i > MaxScore:
		return MaxScore + 1
	case i < MinScore:
		return MinScore - 1
	default:
		return int(i)
	}
}

// textValue renders a loosely typed JSON field as text. Absent and null fields report false.
func textValue(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text, true
	}
	return string(trimmed), true
}

// unwrapCodeFence strips a single surrounding Markdown code fence, including
// an optional language tag such as ```json.
func unwrapCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 6 || !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}

	inner := trimmed[3 : len(trimmed)-3]
	if newline := strings.IndexByte(inner, '\n'); newline >= 0 {
		if tag := strings.TrimSpace(inner[:newline]); !strings.ContainsAny(tag, "{[\"") {
			inner = inner[newline+1:]
		}
	}
	return strings.TrimSpace(inner)
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	count := 0
	for index := range text {
		if count == limit {
			return text[:index]
		}
		count++
	}
	return text
}
