package evdev

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

const inputPath = "/dev/input"

// ErrNoDevices is returned when device enumeration comes up empty. This is
// fatal to startup; no retry is attempted.
var ErrNoDevices = errors.New("no input devices found")

// eviocgName builds the EVIOCGNAME(len) ioctl request (_IOC(_IOC_READ, 'E',
// 0x06, len)).
func eviocgName(size uint32) uintptr {
	const iocRead = 2
	return uintptr(iocRead<<30 | size<<16 | uint32('E')<<8 | 0x06)
}

// listEventDevices returns the evdev character devices under dir, sorted by
// name so event0 comes before event10.
func listEventDevices(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "event") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// openDevice opens the given device path, or the first enumerated event
// device when path is empty.
func openDevice(path string) (*os.File, error) {
	if path == "" {
		paths, err := listEventDevices(inputPath)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, ErrNoDevices
		}
		path = paths[0]
	}

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("opening input device: %w", err)
	}
	return f, nil
}

// deviceName asks the kernel for the device's human-readable name. Best
// effort; used for logging only.
func deviceName(f *os.File) string {
	buf := make([]byte, 256)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		f.Fd(),
		eviocgName(uint32(len(buf))),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if errno != 0 {
		return ""
	}
	if i := strings.IndexByte(string(buf), 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
