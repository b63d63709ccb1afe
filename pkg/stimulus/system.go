package stimulus

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemSource samples host load into a stimulus vector: per-core CPU
// utilization folded across the leading components, memory pressure on the
// trailing ones. All values land in [0,1].
type SystemSource struct {
	dimension int
}

// NewSystemSource creates a sampler emitting vectors of the given dimension.
func NewSystemSource(dimension int) (*SystemSource, error) {
	if dimension < 2 {
		return nil, fmt.Errorf("system source needs dimension >= 2, got %d", dimension)
	}
	return &SystemSource{dimension: dimension}, nil
}

// Sample reads instantaneous CPU and memory figures.
func (s *SystemSource) Sample(ctx context.Context) ([]float64, error) {
	out := make([]float64, s.dimension)

	percents, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return nil, fmt.Errorf("failed to sample cpu: %w", err)
	}
	// fold per-core readings into the first dimension-1 slots
	cpuSlots := s.dimension - 1
	counts := make([]int, cpuSlots)
	for i, p := range percents {
		slot := i % cpuSlots
		out[slot] += p / 100
		counts[slot]++
	}
	for i, c := range counts {
		if c > 1 {
			out[i] /= float64(c)
		}
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sample memory: %w", err)
	}
	out[s.dimension-1] = vm.UsedPercent / 100

	return out, nil
}
