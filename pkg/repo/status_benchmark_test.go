package repo

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

var benchmarkStatusEntrySink int

func BenchmarkStatus(b *testing.B) {
	fs := afero.NewMemMapFs()
	r, err := InitWithOptions(testRoot, InitOptions{Options: testOptions(fs)})
	if err != nil {
		b.Fatalf("Init: %v", err)
	}

	const fileCount = 200
	for _, dir := range []string{"bench", "loose"} {
		if err := fs.MkdirAll(filepath.Join(testRoot, dir), 0o755); err != nil {
			b.Fatalf("MkdirAll: %v", err)
		}
	}
	for i := 0; i < fileCount; i++ {
		rel := fmt.Sprintf("bench/file-%03d.txt", i)
		path := filepath.Join(testRoot, filepath.FromSlash(rel))
		if err := afero.WriteFile(fs, path, []byte("line 1\nline 2\n"), 0o644); err != nil {
			b.Fatalf("WriteFile(%q): %v", rel, err)
		}
		if err := r.Add(rel); err != nil {
			b.Fatalf("Add(%q): %v", rel, err)
		}
	}
	if _, err := r.Commit("seed"); err != nil {
		b.Fatalf("Commit: %v", err)
	}

	// A handful of dirty and untracked files so every status path runs.
	for i := 0; i < 10; i++ {
		path := filepath.Join(testRoot, "bench", fmt.Sprintf("file-%03d.txt", i))
		if err := afero.WriteFile(fs, path, []byte("changed\n"), 0o644); err != nil {
			b.Fatalf("WriteFile: %v", err)
		}
		loose := filepath.Join(testRoot, "loose", fmt.Sprintf("new-%d.txt", i))
		if err := afero.WriteFile(fs, loose, []byte("new\n"), 0o644); err != nil {
			b.Fatalf("WriteFile: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st, err := r.Status()
		if err != nil {
			b.Fatalf("Status: %v", err)
		}
		benchmarkStatusEntrySink = len(st.Unstaged) + len(st.Untracked)
	}
}
