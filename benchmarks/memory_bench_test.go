// Package benchmarks provides memory footprint benchmarks.
package benchmarks

import (
	"fmt"
	"runtime"
	"testing"
)

func BenchmarkMemoryPerEntity(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("entities=%d", n), func(b *testing.B) {
			var before runtime.MemStats
			runtime.ReadMemStats(&before)
			w, _ := NewMovementWorld(n)
			runtime.GC()
			var after runtime.MemStats
			runtime.ReadMemStats(&after)
			bytesPerEntity := (after.TotalAlloc - before.TotalAlloc) / uint64(n)
			b.ReportMetric(float64(bytesPerEntity)/1024, "KB/entity")
			runtime.KeepAlive(w)
		})
	}
}

func BenchmarkSnapshotSize(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("entities=%d", n), func(b *testing.B) {
			var size int
			for i := 0; i < b.N; i++ {
				size = len(GenSnapshotYAML(n))
			}
			b.ReportMetric(float64(size)/1024, "KB/snapshot")
		})
	}
}
