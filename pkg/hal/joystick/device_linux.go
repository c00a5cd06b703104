//go:build linux

package joystick

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const iocGNAME uint = 0x80ff6a13

type device struct {
	file  *os.File
	index int
	name  string
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	var buf [256]byte
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(iocGNAME), uintptr(unsafe.Pointer(&buf))); errno != 0 {
		f.Close()
		return nil, errno
	}
	name := buf[:]
	if pos := bytes.IndexByte(name, 0); pos >= 0 {
		name = name[:pos]
	}
	return &device{file: f, index: index, name: string(name)}, nil
}

// DetectAndOpen opens the first present device from startIndex.
// It returns nil without error when none is present.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 32; index++ {
		d, err := Open(index)
		if err == nil {
			return d, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, nil
}

func (d *device) Close() error {
	return d.file.Close()
}

func (d *device) Index() int {
	return d.index
}

func (d *device) Name() string {
	return d.name
}

func (d *device) ReadEvent() (Event, error) {
	var buf [EventSize]byte
	if _, err := io.ReadFull(d.file, buf[:]); err != nil {
		return Event{}, err
	}
	return DecodeEvent(buf[:])
}
