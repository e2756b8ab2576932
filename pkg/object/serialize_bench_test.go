package object

import (
	"fmt"
	"testing"
)

var (
	marshalCommitBenchmarkSink   []byte
	unmarshalCommitBenchmarkSink *Commit
)

func benchmarkCommit(files int) *Commit {
	snapshot := make(map[string]Hash, files)
	for i := 0; i < files; i++ {
		name := fmt.Sprintf("src/pkg-%02d/file-%04d.go", i%16, i)
		snapshot[name] = SHA256.HashObject(TypeBlob, []byte(name))
	}
	parent := SHA256.HashObject(TypeCommit, []byte("parent"))
	return NewCommit("bench commit\n\nwith a body", 1700000000, parent, snapshot)
}

func BenchmarkMarshalCommit(b *testing.B) {
	c := benchmarkCommit(2000)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		marshalCommitBenchmarkSink = MarshalCommit(c)
	}
}

func BenchmarkUnmarshalCommit(b *testing.B) {
	data := MarshalCommit(benchmarkCommit(2000))

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		c, err := UnmarshalCommit(data)
		if err != nil {
			b.Fatalf("UnmarshalCommit: %v", err)
		}
		unmarshalCommitBenchmarkSink = c
	}
}
