package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springpend/internal/animator"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/series"
	"github.com/san-kum/springpend/internal/spring"
)

func render(t *testing.T, st *Store, frames int) string {
	t.Helper()
	samples := make([]series.Sample, frames)
	for i := range samples {
		samples[i] = series.Sample{T: float64(i), Theta1: 0.1 * float64(i), Ext2: 0.05 * float64(i)}
	}
	s, err := series.New(samples)
	if err != nil {
		t.Fatal(err)
	}
	engine := kinematics.New(s, kinematics.DefaultConstants())
	gen, err := spring.NewGenerator(engine, spring.Resolution{U: 10, V: 4})
	if err != nil {
		t.Fatal(err)
	}

	run, err := st.Create("test", RunMetadata{Source: "mem", Samples: s.Len(), To: s.Len()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	anim := animator.New(engine, gen, run, animator.WithObserver(run))
	if err := anim.Setup(); err != nil {
		t.Fatal(err)
	}
	if err := anim.Prerender(context.Background(), 0, s.Len(), 2); err != nil {
		t.Fatal(err)
	}
	if err := run.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	return run.ID()
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID := render(t, st, 5)

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Frames != 5 {
		t.Errorf("expected 5 frames, got %d", meta.Frames)
	}
	if len(meta.Static) != len(kinematics.StaticIDs) {
		t.Errorf("expected %d static bodies, got %d", len(kinematics.StaticIDs), len(meta.Static))
	}
	if meta.Source != "mem" {
		t.Errorf("expected source 'mem', got '%s'", meta.Source)
	}

	bob, err := st.LoadPoses(runID, kinematics.Bob)
	if err != nil {
		t.Fatalf("load poses failed: %v", err)
	}
	if len(bob) != 5 {
		t.Fatalf("expected 5 bob poses, got %d", len(bob))
	}
	for i, p := range bob {
		if p.Index != i {
			t.Errorf("pose %d has index %d", i, p.Index)
		}
		if p.Order != "ZYX" {
			t.Errorf("bob order should be ZYX, got %s", p.Order)
		}
	}
	// Frame 0 is the rest configuration.
	if math.Abs(bob[0].Position[2]-(-10.2)) > 1e-6 {
		t.Errorf("expected rest z -10.2, got %f", bob[0].Position[2])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	render(t, st, 2)
	render(t, st, 3)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Frames != 2 || runs[1].Frames != 3 {
		t.Errorf("runs should be listed oldest first: %d, %d", runs[0].Frames, runs[1].Frames)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runID := render(t, st, 1)

	for _, name := range []string{metadataFile, posesFile, springsFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, springsFile))
	if err != nil {
		t.Fatal(err)
	}
	// header plus one row per spring
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 3 {
		t.Errorf("expected 3 lines in springs.csv, got %d", lines)
	}
}

func TestRunAbort(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	run, err := st.Create("aborted", RunMetadata{Source: "mem"})
	if err != nil {
		t.Fatal(err)
	}
	run.Abort()

	if _, err := os.Stat(filepath.Join(tmpDir, run.ID())); !os.IsNotExist(err) {
		t.Errorf("run directory should be removed, stat err %v", err)
	}
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs after abort, got %d", len(runs))
	}
}

func TestRunStopsAfterWriteError(t *testing.T) {
	st := New(t.TempDir())
	run, err := st.Create("broken", RunMetadata{Source: "mem"})
	if err != nil {
		t.Fatal(err)
	}
	// Writes land in the csv buffer until it flushes into the closed file.
	run.poses.Close()

	pose := kinematics.Pose{Scale: mgl64.Vec3{1, 1, 1}}
	for i := 0; i < 10000 && run.err == nil; i++ {
		for _, id := range kinematics.DynamicIDs {
			if err := run.UpsertBody(id, pose); err != nil {
				t.Fatalf("upsert failed before any write error: %v", err)
			}
		}
		run.OnFrame(&animator.Output{Index: i})
	}
	if run.err == nil {
		t.Fatal("expected a write error on a closed file")
	}

	frames := run.meta.Frames
	if err := run.UpsertBody(kinematics.Bob, pose); err == nil {
		t.Error("upsert should report the stored write error")
	}
	run.OnFrame(&animator.Output{Index: frames + 1})
	if run.meta.Frames != frames {
		t.Errorf("frames should stop at %d, got %d", frames, run.meta.Frames)
	}
	if err := run.Close(); err == nil {
		t.Error("close should report the write error")
	}
}
