package metrics

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type Host struct {
	OS              string `json:"os" yaml:"os"`
	Platform        string `json:"platform" yaml:"platform"`
	PlatformVersion string `json:"platform_version" yaml:"platform_version"`
	KernelArch      string `json:"kernel_arch" yaml:"kernel_arch"`
}

type Memory struct {
	Used  uint64 `json:"used" yaml:"used"`
	Total uint64 `json:"total" yaml:"total"`
}

type Disk struct {
	Path  string `json:"path" yaml:"path"`
	Free  uint64 `json:"free" yaml:"free"`
	Total uint64 `json:"total" yaml:"total"`
}

// Snapshot describes the machine an update check runs on.
type Snapshot struct {
	Host   Host   `json:"host" yaml:"host"`
	Memory Memory `json:"memory" yaml:"memory"`
	Disk   Disk   `json:"disk" yaml:"disk"`
}

// Collect gathers a best-effort snapshot. Fields the platform cannot report
// are left zero; dir selects the filesystem for the disk figures.
func Collect(ctx context.Context, dir string) Snapshot {
	snap := Snapshot{Disk: Disk{Path: dir}}

	if info, err := host.InfoWithContext(ctx); err == nil {
		snap.Host = Host{
			OS:              info.OS,
			Platform:        info.Platform,
			PlatformVersion: info.PlatformVersion,
			KernelArch:      info.KernelArch,
		}
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.Memory.Used = vm.Used
		snap.Memory.Total = vm.Total
	}
	if dir != "" {
		if usage, err := disk.UsageWithContext(ctx, dir); err == nil {
			snap.Disk.Free = usage.Free
			snap.Disk.Total = usage.Total
		}
	}
	return snap
}
