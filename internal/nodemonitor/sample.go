package nodemonitor

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// sampler tracks enough state between samples to turn cumulative network
// byte counters into a bytes/sec rate.
type sampler struct {
	diskPath     string
	prevNetBytes uint64
	prevNetAt    time.Time
}

func newSampler(diskPath string) *sampler {
	return &sampler{diskPath: diskPath}
}

// sample reads current CPU, memory, disk, and network utilization. The
// first call establishes a network baseline and reports zero throughput.
func (s *sampler) sample(ctx context.Context) (cpuPercent, memPercent, diskPercent, networkBytesPS float64, err error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("nodemonitor: read cpu: %w", err)
	}
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("nodemonitor: read memory: %w", err)
	}
	memPercent = vm.UsedPercent

	du, err := disk.UsageWithContext(ctx, s.diskPath)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("nodemonitor: read disk %s: %w", s.diskPath, err)
	}
	diskPercent = du.UsedPercent

	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("nodemonitor: read network: %w", err)
	}
	var totalBytes uint64
	for _, c := range counters {
		totalBytes += c.BytesSent + c.BytesRecv
	}

	now := time.Now()
	if !s.prevNetAt.IsZero() && totalBytes >= s.prevNetBytes {
		elapsed := now.Sub(s.prevNetAt).Seconds()
		if elapsed > 0 {
			networkBytesPS = float64(totalBytes-s.prevNetBytes) / elapsed
		}
	}
	s.prevNetBytes = totalBytes
	s.prevNetAt = now

	return cpuPercent, memPercent, diskPercent, networkBytesPS, nil
}
