package specialists

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteKeywordOverlap(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "consensus question hits only algorithms",
			in:   "Compare Raft and PBFT consensus algorithms",
			want: []string{"Prof. Algorithms"},
		},
		{
			name: "latency question routes to systems and finance",
			in:   "Analyze latency requirements for financial trading systems",
			want: []string{"Prof. Systems", "Prof. Finance"},
		},
		{
			name: "byzantine question prefers security",
			in:   "Evaluate Byzantine fault tolerance for multi-agent coordination",
			want: []string{"Prof. Security"},
		},
		{
			name: "no keyword match falls back to default pair",
			in:   "What should I cook for dinner?",
			want: []string{"Prof. Algorithms", "Prof. Systems"},
		},
		{
			name: "empty input falls back to default pair",
			in:   "",
			want: []string{"Prof. Algorithms", "Prof. Systems"},
		},
		{
			name: "declaration order breaks ties",
			in:   "raft performance",
			want: []string{"Prof. Algorithms", "Prof. Systems"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.in))
		})
	}
}

func TestRouteIsTotal(t *testing.T) {
	inputs := []string{
		"", " ", "???", "byzantine byzantine byzantine",
		"RAFT PBFT CONSENSUS LATENCY TRADING SECURITY",
		"trading trading market cost economic financial",
	}
	for _, in := range inputs {
		got := Route(in)
		require.NotEmpty(t, got, "input %q", in)
		assert.LessOrEqual(t, len(got), 2, "input %q", in)
		for _, name := range got {
			_, ok := RoleByName(name)
			assert.True(t, ok, "unknown role %q for input %q", name, in)
		}
	}
}

func TestRouteCaseInsensitive(t *testing.T) {
	assert.Equal(t, Route("BYZANTINE FAULT"), Route("byzantine fault"))
}

func TestRoleByName(t *testing.T) {
	r, ok := RoleByName("Prof. Finance")
	require.True(t, ok)
	assert.Equal(t, "Financial Systems", r.Specialty)

	_, ok = RoleByName("Prof. Nobody")
	assert.False(t, ok)
}
