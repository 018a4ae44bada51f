// Command storecheck audits a store directory: every document must decode,
// carry provenance, and (for derived artifacts) match the shape the build
// pipeline writes. It reports freshness as of now and exits non-zero when
// anything is malformed.
//
// Usage:
//
//	go run ./cmd/storecheck -data-dir data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acrenwood/flightwatch/internal/gdd"
	"github.com/acrenwood/flightwatch/internal/store"
)

// phase tracks pass/fail for one audit phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "store directory to audit")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	st, err := store.New(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open store: %v\n", err)
		return 1
	}

	docs, err := listDocuments(st.Base())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: walk store: %v\n", err)
		return 1
	}

	fmt.Println("=== Store Audit ===")
	fmt.Println()

	phases := []*phase{
		auditEnvelopes(st, docs),
		auditFreshness(st, docs),
		auditDerivedShapes(st),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-40s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	fmt.Printf("\nDocuments: %d\n", len(docs))
	if allPassed {
		fmt.Println("Store is consistent.")
		return 0
	}
	fmt.Println("Audit FAILED.")
	return 1
}

// listDocuments returns store-relative paths of every JSON document,
// skipping metadata sidecars.
func listDocuments(base string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".meta.json") {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	return docs, err
}

// auditEnvelopes checks that every document decodes and carries provenance.
func auditEnvelopes(st *store.Store, docs []string) *phase {
	p := &phase{name: "Phase 1: Envelopes and provenance"}

	for _, rel := range docs {
		env, found, err := st.ReadRaw(rel)
		if err != nil {
			p.errorf("%s: %v", rel, err)
			continue
		}
		if !found {
			p.errorf("%s: vanished during audit", rel)
			continue
		}
		if env.Meta.Source == "" {
			p.errorf("%s: no source recorded", rel)
		}
		if env.Meta.FetchedAt.IsZero() {
			p.errorf("%s: no fetched_at recorded", rel)
		}
		if len(env.Unwrap()) == 0 {
			p.errorf("%s: empty payload", rel)
		}
	}
	return p
}

// auditFreshness reports each document's expiry state. Stale documents are
// informational, not errors; the next fetch replaces them.
func auditFreshness(st *store.Store, docs []string) *phase {
	p := &phase{name: "Phase 2: Freshness"}

	for _, rel := range docs {
		env, found, err := st.ReadRaw(rel)
		if err != nil || !found {
			continue // reported in phase 1
		}

		switch {
		case env.Meta.ValidUntil == nil:
			fmt.Printf("  %-44s no expiry\n", rel)
		case time.Now().Before(*env.Meta.ValidUntil):
			fmt.Printf("  %-44s fresh until %s\n", rel, env.Meta.ValidUntil.UTC().Format(time.RFC3339))
		default:
			fmt.Printf("  %-44s STALE since %s\n", rel, env.Meta.ValidUntil.UTC().Format(time.RFC3339))
		}
	}
	return p
}

// auditDerivedShapes decodes the known documents into their real types, so
// a hand-edited or truncated file fails loudly here instead of at serve
// time.
func auditDerivedShapes(st *store.Store) *phase {
	p := &phase{name: "Phase 3: Document shapes"}

	checkDoc(p, st, "derived/gdd_normals.json", func(doc gdd.NormalsDoc) error {
		if len(doc.ByDay) == 0 {
			return fmt.Errorf("normals band is empty")
		}
		for i := 1; i < len(doc.ByDay); i++ {
			if doc.ByDay[i].Day <= doc.ByDay[i-1].Day {
				return fmt.Errorf("days out of order at index %d", i)
			}
		}
		return nil
	})

	checkDoc(p, st, "derived/gdd_timeline.json", func(doc gdd.YearSummary) error {
		if len(doc.Daily) == 0 {
			return fmt.Errorf("timeline has no days")
		}
		prev := 0.0
		for i, d := range doc.Daily {
			if d.Accumulated < prev {
				return fmt.Errorf("accumulation decreases at index %d", i)
			}
			prev = d.Accumulated
		}
		return nil
	})

	checkDoc(p, st, "derived/species_profiles.json", func(entries []gdd.ProfileEntry) error {
		for _, e := range entries {
			if e.ObservationCount < 3 {
				return fmt.Errorf("%s: profile built from %d observations", e.ScientificName, e.ObservationCount)
			}
			if e.GDDMin > e.GDDMedian || e.GDDMedian > e.GDDMax {
				return fmt.Errorf("%s: quantiles out of order", e.ScientificName)
			}
		}
		return nil
	})

	checkDoc(p, st, "live/observations.json", func(observations []gdd.Observation) error {
		for i, o := range observations {
			if o.Species == "" {
				return fmt.Errorf("observation %d has no species", i)
			}
		}
		return nil
	})

	return p
}

// checkDoc decodes one document into T and runs the shape check. A missing
// document is fine; not every store has been fully built.
func checkDoc[T any](p *phase, st *store.Store, rel string, validate func(T) error) {
	raw, found, err := st.Read(rel)
	if err != nil {
		p.errorf("%s: %v", rel, err)
		return
	}
	if !found {
		return
	}

	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		p.errorf("%s: decode: %v", rel, err)
		return
	}
	if err := validate(doc); err != nil {
		p.errorf("%s: %v", rel, err)
	}
}
