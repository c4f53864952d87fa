package router

import "strings"

// complexVerbs and technicalTerms are the fixed lexicons behind the
// complexity heuristic. They are compiled into the binary rather than
// configured so routing decisions stay reproducible across deployments.
var complexVerbs = []string{
	"analyze", "explain", "compare", "evaluate",
	"synthesize", "create", "design", "develop",
}

var technicalTerms = []string{
	"algorithm", "architecture", "optimization",
	"implementation", "framework", "protocol",
}

// tokensPerWord is the word-to-token heuristic. It is deliberately not a
// real tokenizer call: the routing thresholds were tuned against this exact
// approximation and silently "improving" it would shift every decision.
const tokensPerWord = 1.3

// Features holds the signals extracted from one prompt.
type Features struct {
	WordCount            int
	CharCount            int
	QuestionMarkCount    int
	ComplexVerbMatches   int
	TechnicalTermMatches int
	ComplexityScore      float64
	EstimatedTokens      float64
}

// Extract computes the routing features for a prompt. An empty prompt
// yields zero features; extraction never fails.
func Extract(prompt string) Features {
	f := Features{
		WordCount:         len(strings.Fields(prompt)),
		CharCount:         len(prompt),
		QuestionMarkCount: strings.Count(prompt, "?"),
	}

	promptLower := strings.ToLower(prompt)
	for _, verb := range complexVerbs {
		f.ComplexVerbMatches += countWordMatches(promptLower, verb)
	}
	for _, term := range technicalTerms {
		f.TechnicalTermMatches += countWordMatches(promptLower, term)
	}

	f.ComplexityScore = complexityScore(f)
	f.EstimatedTokens = float64(f.WordCount) * tokensPerWord
	return f
}

// complexityScore sums five independently capped terms and clamps the
// result to [0, 1].
func complexityScore(f Features) float64 {
	score := 0.0
	score += capAt(float64(f.WordCount)/100, 0.3)
	score += capAt(float64(f.CharCount)/500, 0.2)
	score += capAt(float64(f.QuestionMarkCount)*0.1, 0.2)
	score += capAt(float64(f.ComplexVerbMatches)*0.15, 0.2)
	score += capAt(float64(f.TechnicalTermMatches)*0.1, 0.1)

	if score > 1.0 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}

func capAt(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}

// countWordMatches counts word-boundary occurrences of term in the
// lowercased prompt.
func countWordMatches(prompt, term string) int {
	count := 0
	for from := 0; ; {
		idx := strings.Index(prompt[from:], term)
		if idx == -1 {
			return count
		}
		idx += from
		end := idx + len(term)

		boundedBefore := idx == 0 || !isWordChar(prompt[idx-1])
		boundedAfter := end == len(prompt) || !isWordChar(prompt[end])
		if boundedBefore && boundedAfter {
			count++
		}
		from = end
	}
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
