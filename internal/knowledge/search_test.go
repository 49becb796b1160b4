package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchLocalRanking(t *testing.T) {
	s := NewSource(nil)

	results := s.SearchLocal("Byzantine fault trading")
	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 3)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 1)
		assert.LessOrEqual(t, len([]rune(r.Snippet)), 200)
		assert.True(t, strings.HasPrefix(r.Locator, "local://"))
	}

	// The fault-tolerance and trading entries outrank the pure-consensus one.
	rank := make(map[string]int)
	for i, r := range results {
		rank[r.Title] = i
	}
	require.Contains(t, rank, "pbft_consensus")
	require.Contains(t, rank, "trading_systems")
	if raftRank, ok := rank["raft_consensus"]; ok {
		assert.Less(t, rank["pbft_consensus"], raftRank)
		assert.Less(t, rank["trading_systems"], raftRank)
	}
}

func TestSearchLocalNoMatch(t *testing.T) {
	s := NewSource(nil)
	assert.Empty(t, s.SearchLocal("quantum entanglement cuisine"))
}

func TestSearchLocalTieBreakByCorpusOrder(t *testing.T) {
	s := NewSource(nil)
	s.mu.Lock()
	s.entries = []Entry{
		{ID: "first", Text: "alpha beta"},
		{ID: "second", Text: "alpha beta"},
	}
	s.mu.Unlock()

	results := s.SearchLocal("alpha beta")
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Title)
	assert.Equal(t, "second", results[1].Title)
}

func TestSearchExternalMock(t *testing.T) {
	s := NewSource(nil)
	results := s.SearchExternalMock("raft latency")
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Snippet, "raft latency")
	assert.Equal(t, "https://example.com/research", results[0].Locator)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	content := `entries:
  - id: paxos
    text: Paxos is a family of consensus protocols.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewSource(nil)
	require.NoError(t, s.LoadFile(path))

	results := s.SearchLocal("paxos consensus")
	require.Len(t, results, 1)
	assert.Equal(t, "paxos", results[0].Title)
}

func TestLoadFileKeepsCorpusOnError(t *testing.T) {
	s := NewSource(nil)
	before := s.Entries()

	assert.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Equal(t, before, s.Entries())
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries:\n  - id: a\n    text: alpha topic\n"), 0o644))

	s := NewSource(nil)
	require.NoError(t, s.LoadFile(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx, path))

	require.NoError(t, os.WriteFile(path, []byte("entries:\n  - id: b\n    text: bravo topic\n"), 0o644))

	assert.Eventually(t, func() bool {
		entries := s.Entries()
		return len(entries) == 1 && entries[0].ID == "b"
	}, 5*time.Second, 50*time.Millisecond)
}
