package stoic

import "strings"

// DefaultPersona is the mentor voice used when a chat request does not supply one.
const DefaultPersona = "You are a calm, concise Stoic mentor in the style of Marcus Aurelius. " +
	"Apply Stoic principles to modern situations. Prefer brevity and clarity. " +
	"When helpful, reference key Stoic ideas like the dichotomy of control, virtue, and acceptance of fate. " +
	"Avoid medical, legal, or financial advice."

// EvaluatorPersona is the system prompt sent alongside every scoring request.
const EvaluatorPersona = "You are an impartial Stoic evaluator. Be strict but fair."

const scoringRubric = "You are a Stoic evaluator. Classify how Stoic a user's proposed response is to their problem.\n" +
	"Rules:\n" +
	"- Gold (3): Clearly applies the dichotomy of control, focuses on internal response, accepts externals, ties to a Stoic principle (e.g., virtue, control, fate), and suggests constructive action within control.\n" +
	"- Silver (2): Mostly Stoic: shows restraint, acceptance, or control focus; may not name principles explicitly.\n" +
	"- Bronze (1): Partially Stoic: gestures at calm or patience but lacks reasoning or control focus.\n" +
	"- None (0): Non-Stoic: blame, entitlement, venting, fixation on externals, or retaliation.\n\n" +
	"Output STRICTLY in compact JSON with keys: medal(one of none|bronze|silver|gold), score(0..3), explanation(short), principles(array of short tags). No extra text.\n\n"

// BuildSystemPrompt returns persona verbatim, or DefaultPersona when it is empty.
func BuildSystemPrompt(persona string) string {
	if persona != "" {
		return persona
	}
	return DefaultPersona
}

// BuildScoringPrompt embeds problem and proposedResponse verbatim into the scoring rubric.
func BuildScoringPrompt(problem, proposedResponse string) string {
	builder := strings.Builder{}
	builder.Grow(len(scoringRubric) + len(problem) + len(proposedResponse) + 32)
	builder.WriteString(scoringRubric)
	builder.WriteString("Problem: ")
	builder.WriteString(problem)
	builder.WriteString("\nProposedResponse: ")
	builder.WriteString(proposedResponse)
	builder.WriteString("\n")
	return builder.String()
}
