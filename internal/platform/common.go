package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v4/process"
)

// processTable lists processes through gopsutil, which covers every OS the
// monitor ships for.
type processTable struct{}

// ProcessNames implements ProcessLister.
func (processTable) ProcessNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	names := make([]string, 0, len(procs))
	for _, p := range procs {
		// Processes can exit or deny access between enumeration and lookup.
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// cpuFlags reads CPUID leaf 1 ECX bit 31 via klauspost/cpuid.
type cpuFlags struct{}

// HypervisorPresent implements HypervisorProbe.
func (cpuFlags) HypervisorPresent() (bool, error) {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpuid.CPU.Supports(cpuid.HYPERVISOR), nil
	default:
		return false, fmt.Errorf("hypervisor flag on %s: %w", runtime.GOARCH, ErrUnsupported)
	}
}

// noDuplication is the OutputDuplicator of every host: the exclusive
// duplication API is not bound, so the capture state is always unknown.
type noDuplication struct{}

// AcquireDuplication implements OutputDuplicator.
func (noDuplication) AcquireDuplication(display int) (func(), error) {
	return nil, fmt.Errorf("output duplication for display %d: %w", display, ErrUnsupported)
}
