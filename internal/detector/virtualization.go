package detector

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/examguard/internal/platform"
)

// VirtualMachineDetector combines the CPU hypervisor flag with a match against
// known VM tooling processes. Either signal alone flags risk.
type VirtualMachineDetector struct {
	cpu        platform.HypervisorProbe
	procs      platform.ProcessLister
	candidates []string
}

// NewVirtualMachineDetector builds the virtualization detector.
func NewVirtualMachineDetector(cpu platform.HypervisorProbe, procs platform.ProcessLister, candidates []string) *VirtualMachineDetector {
	return &VirtualMachineDetector{cpu: cpu, procs: procs, candidates: append([]string(nil), candidates...)}
}

// ID implements Detector.
func (d *VirtualMachineDetector) ID() string { return IDVirtualMachine }

// Name implements Detector.
func (d *VirtualMachineDetector) Name() string { return "Virtual Machine / Sandbox Environment" }

// Evaluate implements Detector.
func (d *VirtualMachineDetector) Evaluate(ctx context.Context) (Result, error) {
	flag, flagErr := d.cpu.HypervisorPresent()
	hit, proc, procErr := findProcess(ctx, d.procs, d.candidates)

	if flagErr != nil && procErr != nil {
		return degraded(d, errors.Join(flagErr, procErr)), nil
	}

	res := newResult(d)
	res.Risk = flag || proc

	switch {
	case flag && proc:
		res.Detail = fmt.Sprintf("Hypervisor bit set; VM process detected: %s", hit)
	case flag:
		res.Detail = "CPU hypervisor bit is set (running inside a VM)."
	case proc:
		res.Detail = fmt.Sprintf("Detected VM-related process: %s", hit)
	default:
		res.Detail = "No obvious VM indicators detected."
		if flagErr != nil {
			res.Detail += fmt.Sprintf(" Hypervisor flag unavailable: %v", flagErr)
		}
		if procErr != nil {
			res.Detail += fmt.Sprintf(" Process table unavailable: %v", procErr)
		}
	}
	return res, nil
}
