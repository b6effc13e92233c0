package wallpaper

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// shmRegion is one memfd-backed, mmap'd allocation that a wl_shm_pool is
// created over. The compositor reads pixels directly out of this mapping;
// the daemon writes into it between release and commit.
type shmRegion struct {
	fd   int
	size int32
	data []byte
}

// newShmRegion creates an anonymous, close-on-exec memory file of the given
// size and maps it read/write into the process.
//
// Parameters:
//   - size: the region size in bytes
//
// Returns:
//   - *shmRegion: the mapped region
//   - error: error if the memfd or mapping could not be created
func newShmRegion(size int32) (*shmRegion, error) {
	fd, err := unix.MemfdCreate("wlwallpaperd-canvas", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("wallpaper: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wallpaper: ftruncate: %w", err)
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wallpaper: mmap: %w", err)
	}
	return &shmRegion{fd: fd, size: size, data: data}, nil
}

// close unmaps and closes the backing memfd.
func (r *shmRegion) close() error {
	if r == nil {
		return nil
	}
	if r.data != nil {
		_ = unix.Munmap(r.data)
	}
	return unix.Close(r.fd)
}
