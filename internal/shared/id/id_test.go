package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestNewBuildID(t *testing.T) {
	id := NewBuildID()

	if !strings.HasPrefix(id.String(), BuildPrefix+"_") {
		t.Errorf("Build ID should start with '%s_', got: %s", BuildPrefix, id)
	}

	parts := strings.Split(id.String(), "_")
	if len(parts) != 2 {
		t.Fatalf("Build ID should have format 'build_ulid', got: %s", id)
	}
	parsed, err := ulid.Parse(parts[1])
	if err != nil {
		t.Fatalf("Build ID suffix should be a ULID: %v", err)
	}
	if ts := ulid.Time(parsed.Time()); ts.Before(time.Now().Add(-time.Minute)) {
		t.Errorf("Build ID timestamp %v should be recent", ts)
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const workers = 8
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.GenerateString()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d unique IDs, got %d", workers*perWorker, len(seen))
	}
}

func TestProjectIDIsStable(t *testing.T) {
	a := NewProjectID("Shop Front")
	b := NewProjectID("  shop front ")

	if a != b {
		t.Errorf("Project IDs should match for equivalent names: %s vs %s", a, b)
	}
	if a == NewProjectID("Other App") {
		t.Error("Different apps should not share a project ID")
	}
	if _, err := uuid.Parse(a.String()); err != nil {
		t.Errorf("Project ID should be a UUID: %v", err)
	}
}
