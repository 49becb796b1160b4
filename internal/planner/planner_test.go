package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeTriggers(t *testing.T) {
	triggered := []string{
		"Compare Raft vs PBFT for financial trading",
		"what about pbft?",
		"Is PBFT overkill here?",
		"explain CONSENSUS to me",
		"raft",
	}
	for _, q := range triggered {
		p := Decompose(q)
		require.Len(t, p.SubQuestions, 3, "question %q", q)
		assert.Equal(t, "Compare Raft and PBFT consensus algorithms", p.SubQuestions[0])
		assert.Equal(t, "Analyze latency requirements for financial trading systems", p.SubQuestions[1])
		assert.Equal(t, "Evaluate Byzantine fault tolerance for multi-agent coordination", p.SubQuestions[2])
		assert.Equal(t, 2, p.ToolCallBudget)
	}
}

func TestDecomposeIdempotentOnTrigger(t *testing.T) {
	// Any input containing "PBFT" yields the same fixed plan regardless of
	// surrounding text.
	a := Decompose("PBFT")
	b := Decompose("a long rambling question that happens to mention pBfT somewhere")
	assert.Equal(t, a, b)
}

func TestDecomposePassThrough(t *testing.T) {
	p := Decompose("How do bloom filters work?")
	require.Len(t, p.SubQuestions, 1)
	assert.Equal(t, "How do bloom filters work?", p.SubQuestions[0])
	assert.Equal(t, 2, p.ToolCallBudget)
}
