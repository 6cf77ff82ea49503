package config

import (
	"time"

	"github.com/example/examguard/internal/detector"
)

// Reference timing.
const (
	DefaultInterval        = 5 * time.Second
	DefaultPollInterval    = 100 * time.Millisecond
	DefaultCaptureInterval = 1 * time.Second
	DefaultIdleThreshold   = detector.DefaultIdleThreshold
)

// DefaultProcessLists returns the built-in candidate process names for each
// name-list detector, in match priority order.
func DefaultProcessLists() map[string][]string {
	return map[string][]string{
		detector.IDRemoteTools: {
			"AnyDesk.exe", "ad_svc.exe",
			"TeamViewer.exe", "TeamViewer_Service.exe",
			"winvnc.exe", "tvnserver.exe", "uvnc_service.exe", "tightvnc.exe", "vncserver.exe",
			"remoting_host.exe",
			"QuickAssist.exe", "RemoteHelp.exe",
			"RustDesk.exe",
			"ZohoAssist.exe", "ZohoAssist10.exe",
			"Splashtop.exe", "SRServer.exe",
			"DWRCS.exe", "DWRCST.exe",
			"rutserv.exe", "rutview.exe",
		},
		detector.ListVMTools: {
			"vmtoolsd.exe", "vmware.exe", "vmware-vmx.exe",
			"vboxservice.exe", "vboxtray.exe",
			"qemu-ga.exe", "qemu-system-x86_64.exe",
			"vmsrvc.exe", "vpcmap.exe",
			"prl_tools.exe",
		},
		detector.IDScreenRecorders: {
			"obs64.exe", "obs32.exe",
			"Streamlabs OBS.exe", "slobs.exe",
			"GameBar.exe", "GameBarFTServer.exe", "GamebarPresenceWriter.exe",
			"NvidiaShare.exe", "nvsphelper64.exe",
			"RadeonSoftware.exe", "Radeonsettings.exe",
			"bandicam.exe",
			"camtasiaStudio.exe", "camtasia.exe",
			"XSplit.Core.exe", "XSplit.Gamecaster.exe",
			"flashbackrecorder.exe",
			"ScreenRecorder.exe",
		},
		detector.IDMacroTools: {
			"AutoHotkey.exe", "AutoHotkeyU64.exe", "AutoHotkeyU32.exe",
			"MacroRecorder.exe",
			"TinyTask.exe",
			"PuloverMacroCreator.exe",
		},
		detector.IDVPN: {
			"openvpn.exe",
			"NordVPN.exe", "NordVPN.NetworkService.exe",
			"ProtonVPN.exe",
			"expressvpn.exe",
			"pia-client.exe", "pia-nw.exe",
			"wireguard.exe",
			"CiscoAnyConnect.exe", "vpnui.exe", "vpnagent.exe",
			"FortiClient.exe",
			"GlobalProtect.exe",
			"PulseSecure.exe",
			"SoftEtherVPN.exe",
		},
	}
}

// DefaultDisplayMarkers are substrings of display adapter descriptions that
// indicate virtual, remote or mirror drivers.
func DefaultDisplayMarkers() []string {
	return []string{"Virtual", "RDP", "Mirr", "Splashtop", "DISPLAYLINK"}
}
