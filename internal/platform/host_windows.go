//go:build windows

package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	smCMonitors      = 80
	smRemoteSession  = 0x1000
	maxDisplayProbes = 64
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetSystemMetrics    = user32.NewProc("GetSystemMetrics")
	procGetLastInputInfo    = user32.NewProc("GetLastInputInfo")
	procEnumDisplayDevicesW = user32.NewProc("EnumDisplayDevicesW")
	procGetTickCount        = kernel32.NewProc("GetTickCount")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type displayDeviceW struct {
	cb           uint32
	deviceName   [32]uint16
	deviceString [128]uint16
	stateFlags   uint32
	deviceID     [128]uint16
	deviceKey    [128]uint16
}

// WindowsHost reads capabilities through user32/kernel32.
type WindowsHost struct {
	processTable
	cpuFlags
	noDuplication
}

// NewHost returns the capability set for Windows.
func NewHost() Host {
	return &WindowsHost{}
}

func systemMetric(index int) (int, error) {
	if err := procGetSystemMetrics.Find(); err != nil {
		return 0, fmt.Errorf("GetSystemMetrics: %w", ErrUnsupported)
	}
	r, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int(int32(r)), nil
}

// RemoteSession implements SessionProbe.
func (h *WindowsHost) RemoteSession() (bool, error) {
	v, err := systemMetric(smRemoteSession)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ActiveDisplayCount implements DisplayEnumerator.
func (h *WindowsHost) ActiveDisplayCount() (int, error) {
	return systemMetric(smCMonitors)
}

// DisplayDevices implements DisplayEnumerator.
func (h *WindowsHost) DisplayDevices() ([]DisplayDevice, error) {
	if err := procEnumDisplayDevicesW.Find(); err != nil {
		return nil, fmt.Errorf("EnumDisplayDevicesW: %w", ErrUnsupported)
	}

	var devices []DisplayDevice
	for i := 0; i < maxDisplayProbes; i++ {
		var dd displayDeviceW
		dd.cb = uint32(unsafe.Sizeof(dd))
		r, _, _ := procEnumDisplayDevicesW.Call(0, uintptr(i), uintptr(unsafe.Pointer(&dd)), 0)
		if r == 0 {
			break
		}
		devices = append(devices, DisplayDevice{
			Name:        windows.UTF16ToString(dd.deviceName[:]),
			Description: windows.UTF16ToString(dd.deviceString[:]),
		})
	}
	return devices, nil
}

// SinceLastInput implements IdleClock.
func (h *WindowsHost) SinceLastInput() (time.Duration, error) {
	if err := procGetLastInputInfo.Find(); err != nil {
		return 0, fmt.Errorf("GetLastInputInfo: %w", ErrUnsupported)
	}

	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	r, _, callErr := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return 0, fmt.Errorf("GetLastInputInfo: %w", callErr)
	}

	now, _, _ := procGetTickCount.Call()
	// Both values are 32-bit tick counts; unsigned subtraction handles wraparound.
	idle := uint32(now) - info.dwTime
	return time.Duration(idle) * time.Millisecond, nil
}
