// Package report writes inference results to a report directory:
// formatted signatures, guessing statistics, and the inheritance graph.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/auguria/augur/typesys"
)

const (
	SignaturesFile = "signatures.txt"
	StatsFile      = "stats.yaml"
	HierarchyFile  = "hierarchy.dot"
)

// Writer emits report files under Dir. The directory is guarded by a file
// lock so concurrent runs sharing a report directory do not interleave.
type Writer struct {
	Dir string
}

func (w *Writer) Write(signatures []string, stats *typesys.TypeGuessingStats, dot string) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	lock := flock.New(filepath.Join(w.Dir, ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire report lock: %w", err)
	}
	defer lock.Unlock()

	sigText := strings.Join(signatures, "\n")
	if len(signatures) > 0 {
		sigText += "\n"
	}
	if err := os.WriteFile(filepath.Join(w.Dir, SignaturesFile), []byte(sigText), 0644); err != nil {
		return fmt.Errorf("write signatures: %w", err)
	}

	statsYAML, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.Dir, StatsFile), statsYAML, 0644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	if err := os.WriteFile(filepath.Join(w.Dir, HierarchyFile), []byte(dot), 0644); err != nil {
		return fmt.Errorf("write hierarchy: %w", err)
	}
	return nil
}
