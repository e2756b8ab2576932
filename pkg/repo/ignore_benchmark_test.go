package repo

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

var benchmarkIgnoreSink bool

func BenchmarkIgnoreCheckerLargeLiteralSet(b *testing.B) {
	const literalPatternCount = 10000

	lines := make([]string, 0, literalPatternCount+4)
	for i := 0; i < literalPatternCount; i++ {
		lines = append(lines, fmt.Sprintf("artifact-%05d.bin", i))
	}
	lines = append(lines,
		"*.log",
		"build/",
		"!build/keep.log",
		"**/*.gen.go",
	)

	fs := afero.NewMemMapFs()
	content := strings.Join(lines, "\n") + "\n"
	if err := afero.WriteFile(fs, filepath.Join(testRoot, IgnoreFile), []byte(content), 0o644); err != nil {
		b.Fatalf("WriteFile: %v", err)
	}
	ic := NewIgnoreChecker(fs, testRoot)

	paths := []string{
		"artifact-09999.bin",
		"src/artifact-09999.bin",
		"build/out.o",
		"build/keep.log",
		"cmd/file.gen.go",
		"src/other.txt",
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchmarkIgnoreSink = ic.IsIgnored(paths[i%len(paths)], false)
	}
}
