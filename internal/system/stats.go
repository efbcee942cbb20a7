package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of the process resources.
type Stats struct {
	RSS         uint64
	CPUPercent  float64
	Threads     int32
	Goroutines  int
	HostTotal   uint64
	HostUsedPct float64
}

// ReadStats samples the current process and host memory.
func ReadStats() (Stats, error) {
	s := Stats{Goroutines: runtime.NumGoroutine()}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("process stats: %w", err)
	}
	if mi, err := p.MemoryInfo(); err == nil {
		s.RSS = mi.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}
	if n, err := p.NumThreads(); err == nil {
		s.Threads = n
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("host memory: %w", err)
	}
	s.HostTotal = vm.Total
	s.HostUsedPct = vm.UsedPercent
	return s, nil
}

func (s Stats) String() string {
	return fmt.Sprintf("RSS: %.1f MiB | CPU: %.1f%% | Threads: %d | Goroutines: %d | Host memory used: %.1f%% of %.1f GiB",
		float64(s.RSS)/(1<<20), s.CPUPercent, s.Threads, s.Goroutines,
		s.HostUsedPct, float64(s.HostTotal)/(1<<30))
}
