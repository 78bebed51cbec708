package discover

import (
	"fmt"
	"strings"

	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

// OpeningQuestion starts every session before the model is consulted.
const OpeningQuestion = "Tell us a bit about yourself: what do you enjoy working on, and what kind of problems do you like to solve?"

const confidenceThreshold = 0.75

func systemPrompt(roles []string, asked int) string {
	var b strings.Builder
	b.WriteString("You are a career discovery assistant for a job simulation platform.\n")
	b.WriteString("You receive the conversation so far as a JSON array of {\"q\": question, \"a\": answer} objects.\n")
	b.WriteString("Decide the next step and reply with exactly one JSON object and nothing else.\n\n")

	b.WriteString("Supported roles (choose exactly one of these names, spelled exactly as listed):\n")
	for _, r := range roles {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, `
Rules:
- Ask at most %d questions in total, one question per turn.
- Stop asking as soon as your confidence in a recommendation is at least %.2f.
- If the person's interests fall outside the corporate domains above (for example medicine, trades, performing arts), recommend with status "unsupported" and explain kindly in message_if_unsupported.
- Questions must be short, friendly and build on the previous answers.

To ask another question reply:
{"action": "ask", "question": "<question>"}

To finish reply:
{"action": "recommend", "status": "supported" | "unsupported", "role_title": "<one supported role, required when supported>", "rationale": "<one or two sentences>", "confidence": <number between 0 and 1>, "message_if_unsupported": "<guidance, required when unsupported>"}
`, domain.MaxQuestions, confidenceThreshold)

	fmt.Fprintf(&b, "\nQuestions asked so far: %d of %d.\n", asked, domain.MaxQuestions)
	if asked >= domain.MaxQuestions {
		b.WriteString("This is the final turn: you must reply with a recommend action.\n")
	}
	return b.String()
}
