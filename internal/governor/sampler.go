package governor

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const mb = 1024 * 1024

// NewSystemSampler returns the gopsutil-backed sampler used outside of
// tests.
func NewSystemSampler() Sampler { return systemSampler{} }

// systemSampler reads live stats via gopsutil.
type systemSampler struct{}

func (systemSampler) Sample() (Snapshot, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample memory: %w", err)
	}

	// Percent over a short interval; instantaneous reads return stale data.
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample cpu: %w", err)
	}
	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	swap, err := mem.SwapMemory()
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample swap: %w", err)
	}

	return Snapshot{
		MemoryUsedMB:      float64(vm.Used) / mb,
		MemoryAvailableMB: float64(vm.Available) / mb,
		MemoryPercent:     vm.UsedPercent,
		CPUPercent:        cpuPercent,
		SwapUsedMB:        float64(swap.Used) / mb,
	}, nil
}
