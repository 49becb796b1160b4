package knowledge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/praxisworks/advisor/internal/util"
)

const (
	maxLocalResults  = 3
	maxSnippetLength = 200
)

var tokenPattern = regexp.MustCompile(`\w+`)

// Result is one snippet returned by a lookup.
type Result struct {
	Title   string
	Snippet string
	Locator string
	Score   int
}

func tokenize(text string) map[string]struct{} {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

// SearchLocal scores each corpus entry by word-set overlap with the query
// and returns the top results. Entries with no overlap are excluded; ties
// keep corpus order; at most 3 results come back, each with score >= 1.
func (s *Source) SearchLocal(query string) []Result {
	queryTokens := tokenize(query)

	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	var results []Result
	for _, entry := range entries {
		score := overlap(queryTokens, tokenize(entry.Text))
		if score == 0 {
			continue
		}
		results = append(results, Result{
			Title:   entry.ID,
			Snippet: util.Truncate(entry.Text, maxSnippetLength, true),
			Locator: "local://" + entry.ID,
			Score:   score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxLocalResults {
		results = results[:maxLocalResults]
	}
	return results
}

// SearchExternalMock stands in for a live web search: it returns a single
// synthetic result embedding the query. Real implementations replace this
// lookup without changing its contract.
func (s *Source) SearchExternalMock(query string) []Result {
	return []Result{
		{
			Title:   fmt.Sprintf("Research on %s", query),
			Snippet: fmt.Sprintf("Academic research discussing %s with performance benchmarks and implementation details.", query),
			Locator: "https://example.com/research",
		},
	}
}
