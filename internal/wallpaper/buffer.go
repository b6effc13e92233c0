package wallpaper

import (
	"fmt"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wire"
)

// bufferSlot is one half of a wallpaper's double buffer: a memory-mapped
// region backing a wl_buffer, plus the bookkeeping its lifecycle requires —
// exactly one of {writable, in-compositor} holds at any instant.
type bufferSlot struct {
	region   *shmRegion
	wbuf     wire.Buffer
	writable bool
	// holders counts outstanding references the compositor (or a prior
	// attach still in flight) has on this buffer; the slot becomes writable
	// again only when this drops to zero on release.
	holders int
}

// pool owns the pair of bufferSlots for one wallpaper and the pool-level
// metadata (stride, size) needed to (re)allocate them on reconfigure.
type pool struct {
	pool    wire.ShmPool
	slots   [2]*bufferSlot
	stride  int32
	width   int32
	height  int32
	format  common.PixelFormat
}

// allocate (re)creates the shm pool and both buffers for the given
// physical pixel dimensions and format. Existing buffers are torn down
// first. Returns an error if the shm pool or either buffer could not be
// created on the wire.
func (p *pool) allocate(shm wire.Shm, width, height int32, format common.PixelFormat) error {
	stride := width * int32(format.BytesPerPixel())
	size := stride * height

	for i := range p.slots {
		if p.slots[i] != nil {
			p.destroySlot(i)
		}
	}

	region, err := newShmRegion(size * 2)
	if err != nil {
		return fmt.Errorf("pool: allocate region: %w", err)
	}

	shmPool, err := shm.CreatePool(region.fd, size*2)
	if err != nil {
		region.close()
		return fmt.Errorf("pool: create wl_shm_pool: %w", err)
	}

	p.pool = shmPool
	p.stride = stride
	p.width = width
	p.height = height
	p.format = format

	for i := 0; i < 2; i++ {
		buf, err := shmPool.CreateBuffer(size*int32(i), width, height, stride, shmFormatFor(format))
		if err != nil {
			return fmt.Errorf("pool: create buffer %d: %w", i, err)
		}
		slot := &bufferSlot{
			region:   region,
			wbuf:     buf,
			writable: true,
		}
		idx := i
		buf.SetRelease(func() {
			slot.holders--
			if slot.holders <= 0 {
				slot.writable = true
				slot.holders = 0
			}
			_ = idx
		})
		p.slots[i] = slot
	}
	return nil
}

// destroySlot tears down one buffer slot's wire object. The backing region
// is shared between both slots (a single memfd split in half) and is
// closed once, by the second slot's teardown.
func (p *pool) destroySlot(i int) {
	slot := p.slots[i]
	if slot == nil {
		return
	}
	if slot.wbuf != nil {
		slot.wbuf.Destroy()
	}
	if i == 1 && slot.region != nil {
		_ = slot.region.close()
	}
	p.slots[i] = nil
}

// writableSlot returns the index of a currently-writable slot, or -1.
func (p *pool) writableSlot() int {
	for i, s := range p.slots {
		if s != nil && s.writable {
			return i
		}
	}
	return -1
}

// bytes returns the byte slice for slot i's half of the shared region.
func (p *pool) bytes(i int) []byte {
	s := p.slots[i]
	off := int32(i) * p.stride * p.height
	size := p.stride * p.height
	return s.region.data[off : off+size]
}

// shmFormatFor maps a common.PixelFormat to its wl_shm_format wire value.
func shmFormatFor(f common.PixelFormat) uint32 {
	switch f {
	case common.XRGB8888:
		return 1 // WL_SHM_FORMAT_XRGB8888
	case common.XBGR8888:
		return 0x34324258 // WL_SHM_FORMAT_XBGR8888 ('XB24')
	case common.RGB888:
		return 0x34324752 // WL_SHM_FORMAT_RGB888 ('RG24')
	case common.BGR888:
		return 0x34324742 // WL_SHM_FORMAT_BGR888 ('BG24')
	default:
		return 1
	}
}
