package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/praxisworks/advisor/internal/metrics"
)

// Entry is one knowledge corpus item. The locator published for an entry is
// "local://<id>".
type Entry struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

type corpusFile struct {
	Entries []Entry `yaml:"entries"`
}

// Source serves snippet lookups over a fixed corpus plus a mocked external
// search. Lookups are read-only; the corpus itself can be swapped wholesale
// by LoadFile or the file watcher.
type Source struct {
	logger *zap.Logger

	mu      sync.RWMutex
	entries []Entry
}

// NewSource returns a Source seeded with the built-in corpus.
func NewSource(logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		logger:  logger,
		entries: defaultCorpus(),
	}
}

func defaultCorpus() []Entry {
	return []Entry{
		{
			ID:   "raft_consensus",
			Text: "Raft is a consensus algorithm designed for understandability. It provides crash fault tolerance for distributed systems by electing a leader and replicating log entries. Raft assumes benign, non-adversarial failures and focuses on partition tolerance and consistency.",
		},
		{
			ID:   "pbft_consensus",
			Text: "Practical Byzantine Fault Tolerance (PBFT) is a consensus algorithm that can handle Byzantine faults, including malicious nodes. PBFT requires 3f+1 nodes to tolerate f Byzantine nodes, has O(n^2) message complexity, but provides stronger security guarantees than Raft.",
		},
		{
			ID:   "trading_systems",
			Text: "Financial trading systems require sub-millisecond latencies for high-frequency trading. They must handle Byzantine faults due to adversarial environments. Consensus protocols add overhead but are essential for maintaining consistency across distributed trading engines.",
		},
	}
}

// Entries returns a snapshot of the current corpus.
func (s *Source) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// LoadFile replaces the corpus with the entries parsed from a YAML file.
// An empty or invalid file leaves the current corpus in place.
func (s *Source) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	var f corpusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse corpus: %w", err)
	}
	if len(f.Entries) == 0 {
		return fmt.Errorf("corpus %s contains no entries", path)
	}

	s.mu.Lock()
	s.entries = f.Entries
	s.mu.Unlock()

	metrics.CorpusReloads.Inc()
	s.logger.Info("Knowledge corpus loaded",
		zap.String("path", path),
		zap.Int("entries", len(f.Entries)))
	return nil
}

// Watch reloads the corpus whenever the file changes, until ctx is done.
// Reload failures are logged and the previous corpus stays active.
func (s *Source) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: editors replace files rather than writing in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch corpus dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.LoadFile(path); err != nil {
					s.logger.Warn("Corpus reload failed, keeping previous corpus",
						zap.String("path", path), zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("Corpus watcher error", zap.Error(err))
			}
		}
	}()

	s.logger.Info("Watching knowledge corpus", zap.String("path", path))
	return nil
}
