package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// ClipMemory - оценка памяти на один параллельно собираемый клип.
const ClipMemory = 64 << 20

// Host - сводка о машине для отчета о производительности.
type Host struct {
	OS        string
	Platform  string
	CPUModel  string
	Cores     int
	Logical   int
	TotalMem  uint64
	Available uint64
}

func (h Host) String() string {
	return fmt.Sprintf("%s/%s | CPU: %s (%d/%d) | RAM: %.1f/%.1f GiB",
		h.OS, h.Platform, h.CPUModel, h.Cores, h.Logical,
		float64(h.Available)/(1<<30), float64(h.TotalMem)/(1<<30))
}

// HostInfo собирает информацию о системе. Ошибки отдельных пробников не фатальны.
func HostInfo() Host {
	h := Host{OS: runtime.GOOS, Logical: runtime.NumCPU()}
	if info, err := host.Info(); err == nil {
		h.Platform = info.Platform
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.Counts(false); err == nil {
		h.Cores = n
	}
	if n, err := cpu.Counts(true); err == nil {
		h.Logical = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.TotalMem = vm.Total
		h.Available = vm.Available
	}
	return h
}

// RecommendWorkers - число параллельных клипов: логические ядра,
// ограниченные доступной памятью из расчета perClip байт на клип.
func RecommendWorkers(perClip uint64) int {
	logical, err := cpu.Counts(true)
	if err != nil || logical < 1 {
		logical = runtime.NumCPU()
	}
	var available uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		available = vm.Available
	}
	return workersFor(logical, available, perClip)
}

func workersFor(logical int, available, perClip uint64) int {
	n := logical
	if available > 0 && perClip > 0 {
		if byMem := int(available / perClip); byMem < n {
			n = byMem
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}
