//go:build windows

package winapi

import (
	"fmt"
	"syscall"
	"unsafe"
)

// FindWindow locates a top-level window by its registered class name.
// cmd/borderd's send-config/send-targets subcommands use this to find the
// running overlay host window to message (spec §6 control-plane wire
// protocol).
func FindWindow(className string) (HWND, error) {
	ptr, err := syscall.UTF16PtrFromString(className)
	if err != nil {
		return 0, err
	}
	ret, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(ptr)))
	if ret == 0 {
		return 0, fmt.Errorf("winapi: no running instance owns window class %q", className)
	}
	return HWND(ret), nil
}

// SendCopyData delivers text to hwnd via WM_COPYDATA, blocking until the
// receiving window procedure returns (spec §6 wire protocol). wParam
// carries the sending process's own id rather than a window handle — this
// protocol's sender is a CLI process with no window of its own — which the
// receiver resolves with IntegrityRIDFromPID.
func SendCopyData(hwnd HWND, text string) error {
	u16, err := syscall.UTF16FromString(text)
	if err != nil {
		return err
	}
	cds := copyDataStruct{
		cbData: uint32(len(u16) * 2),
		lpData: uintptr(unsafe.Pointer(&u16[0])),
	}
	pid, _, _ := procGetCurrentProcessId.Call()
	ret, _, _ := procSendMessageW.Call(uintptr(hwnd), uintptr(WMCopyData), pid, uintptr(unsafe.Pointer(&cds)))
	if ret == 0 {
		return fmt.Errorf("winapi: WM_COPYDATA to 0x%x was rejected", hwnd)
	}
	return nil
}
