package cpu

import (
	"errors"
	"fmt"
	"math"
)

// ErrIllegalAddress is returned for data addresses outside the backing
// store. The state machine maps it to the IllegalAddress terminal phase.
var ErrIllegalAddress = errors.New("illegal address")

// slot is one cache entry: a private copy of one backing block plus the
// metadata the replacement policy needs.
type slot struct {
	valid bool
	dirty bool
	tag   uint16
	ref   uint64
	data  []byte
}

// Cache is a fully-associative write-back cache in front of a block Memory.
// Replacement is true LRU driven by a monotonic clock: every access, hit or
// miss, stamps the slot with the next clock value, and the victim is the
// valid slot with the smallest stamp. Stamps are unique, so the order is
// total and eviction is deterministic.
type Cache struct {
	mem       *Memory
	blockSize int
	slots     []slot

	hits  uint64
	clock uint64 // next recency stamp to hand out
}

// NewCache creates an empty cache of the given geometry over mem. Slot data
// is sentinel-filled so stale reads stand out.
func NewCache(slots, blockSize int, mem *Memory) *Cache {
	c := &Cache{
		mem:       mem,
		blockSize: blockSize,
		slots:     make([]slot, slots),
		clock:     1,
	}
	for i := range c.slots {
		c.slots[i].data = make([]byte, blockSize*WordSize)
		for j := range c.slots[i].data {
			c.slots[i].data[j] = MemFiller
		}
	}
	return c
}

// Read returns the word at the given word address, filling a slot from the
// backing store on a miss.
func (c *Cache) Read(addr uint16) (uint16, error) {
	id, offset, err := c.lookup(addr)
	if err != nil {
		return 0, err
	}
	return ReadWord(c.slots[id].data, offset), nil
}

// Write stores value at the given word address and marks the slot dirty. A
// miss fills the block first, exactly as a read would.
func (c *Cache) Write(addr uint16, value uint16) error {
	id, offset, err := c.lookup(addr)
	if err != nil {
		return err
	}
	WriteWord(c.slots[id].data, offset, value)
	c.slots[id].dirty = true
	return nil
}

// lookup resolves an address to a slot index and block offset, counting the
// access and restamping the slot's recency.
func (c *Cache) lookup(addr uint16) (int, int, error) {
	if int(addr) >= c.mem.Blocks()*c.blockSize {
		return 0, 0, fmt.Errorf("%w: %#04x", ErrIllegalAddress, addr)
	}
	tag := addr / uint16(c.blockSize)
	offset := int(addr) % c.blockSize

	id, ok := c.find(tag)
	if ok {
		c.hits++
	} else {
		id = c.fill(tag)
	}
	c.slots[id].ref = c.clock
	c.clock++
	return id, offset, nil
}

// find scans for a valid slot holding tag. At most one can exist.
func (c *Cache) find(tag uint16) (int, bool) {
	for i := range c.slots {
		if c.slots[i].valid && c.slots[i].tag == tag {
			return i, true
		}
	}
	return 0, false
}

// fill acquires a slot for tag and loads its block from the backing store.
// The first invalid slot by index is used when one exists; otherwise the
// LRU victim is released and reused.
func (c *Cache) fill(tag uint16) int {
	id := -1
	for i := range c.slots {
		if !c.slots[i].valid {
			id = i
			break
		}
	}
	if id < 0 {
		id = c.evictLRU()
	}
	c.mem.ReadBlock(int(tag), c.slots[id].data)
	c.slots[id].valid = true
	c.slots[id].dirty = false
	c.slots[id].tag = tag
	return id
}

// evictLRU releases the valid slot with the smallest recency stamp. The
// strict < keeps the earliest-indexed minimum, though unique stamps mean a
// tie cannot happen.
func (c *Cache) evictLRU() int {
	id := 0
	oldest := uint64(math.MaxUint64)
	for i := range c.slots {
		if c.slots[i].valid && c.slots[i].ref < oldest {
			oldest = c.slots[i].ref
			id = i
		}
	}
	c.release(id)
	return id
}

// release writes a slot back to the backing store if dirty and marks it
// invalid. Invalid slots are left untouched.
func (c *Cache) release(id int) {
	s := &c.slots[id]
	if !s.valid {
		return
	}
	if s.dirty {
		c.mem.WriteBlock(int(s.tag), s.data)
	}
	s.valid = false
	s.dirty = false
	s.ref = 0
}

// FlushAll writes every dirty slot back and invalidates the whole cache.
// Called once at the end of a run so pending writes reach data memory.
func (c *Cache) FlushAll() {
	for i := range c.slots {
		c.release(i)
	}
}

// Hits returns the running hit count.
func (c *Cache) Hits() uint64 {
	return c.hits
}

// Accesses returns the total access count, the recency clock minus one.
func (c *Cache) Accesses() uint64 {
	return c.clock - 1
}

// Misses returns accesses that had to fill a block.
func (c *Cache) Misses() uint64 {
	return c.Accesses() - c.hits
}

// HitRate returns hits/(hits+misses), or 0 for an untouched cache.
func (c *Cache) HitRate() float64 {
	if c.Accesses() == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.Accesses())
}
