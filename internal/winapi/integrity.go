//go:build windows

package winapi

import (
	"fmt"
	"unsafe"
)

const (
	processQueryLimitedInformation = 0x1000
	tokenQuery                     = 0x0008
	tokenIntegrityLevel            = 25 // TOKEN_INFORMATION_CLASS
)

// tokenMandatoryLabel mirrors TOKEN_MANDATORY_LABEL: a single
// SID_AND_ATTRIBUTES whose SID's last sub-authority is the integrity RID.
type tokenMandatoryLabel struct {
	sidPtr     uintptr
	attributes uint32
}

// SenderIntegrityRID resolves the integrity RID of the process owning
// senderHWND. Kept for a sender identified by window handle (e.g. another
// GUI process); the control-plane wire protocol in this repository instead
// has the sender stamp its own process id into wParam directly (see
// IntegrityRIDFromPID), since a CLI sender has no window of its own.
func SenderIntegrityRID(senderHWND HWND) (uint32, error) {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(senderHWND), uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return 0, fmt.Errorf("winapi: could not resolve sender process id")
	}
	return IntegrityRIDFromPID(pid)
}

// IntegrityRIDFromPID resolves the Windows mandatory-integrity-level RID
// (e.g. 0x1000 low, 0x2000 medium, 0x3000 high, 0x4000 system) of the
// process identified by pid (spec §6 "sender's integrity-level filter
// explicitly whitelisted").
func IntegrityRIDFromPID(pid uint32) (uint32, error) {
	if pid == 0 {
		return 0, fmt.Errorf("winapi: zero process id")
	}

	hProcess, _, _ := procOpenProcess.Call(processQueryLimitedInformation, 0, uintptr(pid))
	if hProcess == 0 {
		return 0, errSyscall("OpenProcess")
	}
	defer procCloseHandle.Call(hProcess)

	var hToken uintptr
	ret, _, _ := procOpenProcessToken.Call(hProcess, tokenQuery, uintptr(unsafe.Pointer(&hToken)))
	if ret == 0 {
		return 0, errSyscall("OpenProcessToken")
	}
	defer procCloseHandle.Call(hToken)

	var size uint32
	procGetTokenInformation.Call(hToken, tokenIntegrityLevel, 0, 0, uintptr(unsafe.Pointer(&size)))
	if size == 0 {
		return 0, errSyscall("GetTokenInformation(size probe)")
	}
	buf := make([]byte, size)
	ret, _, _ = procGetTokenInformation.Call(
		hToken, tokenIntegrityLevel, uintptr(unsafe.Pointer(&buf[0])), uintptr(size), uintptr(unsafe.Pointer(&size)))
	if ret == 0 {
		return 0, errSyscall("GetTokenInformation")
	}
	label := (*tokenMandatoryLabel)(unsafe.Pointer(&buf[0]))

	countPtr, _, _ := procGetSidSubAuthorityCount.Call(label.sidPtr)
	count := *(*byte)(unsafe.Pointer(countPtr))
	if count == 0 {
		return 0, fmt.Errorf("winapi: integrity SID has no sub-authorities")
	}

	ridPtr, _, _ := procGetSidSubAuthority.Call(label.sidPtr, uintptr(count-1))
	rid := *(*uint32)(unsafe.Pointer(ridPtr))
	return rid, nil
}
