package llm

import (
	"regexp"
	"strings"
)

var (
	thinkBlockRe     = regexp.MustCompile(`(?is)<think>.*?</think>`)
	reasoningBlockRe = regexp.MustCompile(`(?is)<reasoning>.*?</reasoning>`)
	reasoningFenceRe = regexp.MustCompile("(?is)```(?:think|thinking|reasoning).*?```")
	reasoningLineRe  = regexp.MustCompile(`(?im)^[ \t]*(?:reasoning|thought|thinking)[ \t]*:.*$`)
	blankRunRe       = regexp.MustCompile(`\n{3,}`)
)

// StripThink removes model reasoning markup: paired <think> and
// <reasoning> blocks, fenced blocks labeled as reasoning, and leading
// "Reasoning:"-style lines. Runs of blank lines left behind are collapsed
// and the result trimmed. Stripping already-stripped text is a no-op.
func StripThink(text string) string {
	out := thinkBlockRe.ReplaceAllString(text, "")
	out = reasoningBlockRe.ReplaceAllString(out, "")
	out = reasoningFenceRe.ReplaceAllString(out, "")
	out = reasoningLineRe.ReplaceAllString(out, "")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
