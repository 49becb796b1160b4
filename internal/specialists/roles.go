package specialists

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Role is the static identity of one specialist: a fixed persona with a
// keyword-based expertise profile. The role set is closed; variants differ
// only in descriptor data.
type Role struct {
	Name      string
	Specialty string
	Keywords  []string
}

// Roles lists every specialist in declaration order. Declaration order is
// the tie break for routing and the iteration order for analysis.
var Roles = []Role{
	{
		Name:      "Prof. Algorithms",
		Specialty: "Consensus Algorithms",
		Keywords:  []string{"raft", "pbft", "consensus", "distributed", "algorithm"},
	},
	{
		Name:      "Prof. Systems",
		Specialty: "Performance & Systems",
		Keywords:  []string{"latency", "performance", "system", "network", "throughput"},
	},
	{
		Name:      "Prof. Security",
		Specialty: "Byzantine Fault Tolerance",
		Keywords:  []string{"byzantine", "fault", "security", "tolerance", "adversarial"},
	},
	{
		Name:      "Prof. Finance",
		Specialty: "Financial Systems",
		Keywords:  []string{"trading", "financial", "cost", "economic", "market"},
	},
}

const maxRolesPerQuestion = 2

// defaultPair is returned when no role matches a sub-question at all.
var defaultPair = []string{"Prof. Algorithms", "Prof. Systems"}

// RoleByName resolves a role from its name.
func RoleByName(name string) (Role, bool) {
	return lo.Find(Roles, func(r Role) bool { return r.Name == name })
}

type scoredRole struct {
	name  string
	score int
}

// Route returns the names of the top-scoring roles for a sub-question, at
// most two. Scores count expertise keywords appearing as case-insensitive
// substrings; roles scoring zero are excluded, and an all-zero field falls
// back to a fixed default pair. Route is total and deterministic.
func Route(subQuestion string) []string {
	lower := strings.ToLower(subQuestion)

	scored := lo.FilterMap(Roles, func(r Role, _ int) (scoredRole, bool) {
		score := lo.CountBy(r.Keywords, func(kw string) bool {
			return strings.Contains(lower, kw)
		})
		return scoredRole{name: r.Name, score: score}, score > 0
	})

	if len(scored) == 0 {
		out := make([]string, len(defaultPair))
		copy(out, defaultPair)
		return out
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > maxRolesPerQuestion {
		scored = scored[:maxRolesPerQuestion]
	}
	return lo.Map(scored, func(s scoredRole, _ int) string { return s.name })
}
