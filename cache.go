package tmc2160

import "github.com/guptaarnav/tmc2160-driver/registers"

// writeOnlyRegisters lists the registers the chip cannot read back. Their
// last written value is shadowed in the cache so read-modify-write still
// works. Extending the tracked set means adding an address here.
var writeOnlyRegisters = []registers.Register{
	registers.IHoldIRun,
	registers.TPwmThrs,
	registers.CoolConf,
	registers.PwmConf,
}

type cacheEntry struct {
	reg   registers.Register
	value uint32
}

// Cache is the shadow store for write-only registers. Entries start at zero,
// the chip's reset value, and follow every successful write to a tracked
// register. Registers outside the tracked set are never cached.
type Cache struct {
	entries []cacheEntry
}

// NewCache returns a cache tracking the write-only register set.
func NewCache() *Cache {
	c := &Cache{entries: make([]cacheEntry, len(writeOnlyRegisters))}
	for i, reg := range writeOnlyRegisters {
		c.entries[i].reg = reg
	}
	return c
}

// Get returns the shadowed value for reg. The second return is false for
// registers outside the tracked set.
func (c *Cache) Get(reg registers.Register) (uint32, bool) {
	for i := range c.entries {
		if c.entries[i].reg == reg {
			return c.entries[i].value, true
		}
	}
	return 0, false
}

// Put records value as the last written value of reg. Writes to untracked
// registers are ignored.
func (c *Cache) Put(reg registers.Register, value uint32) {
	for i := range c.entries {
		if c.entries[i].reg == reg {
			c.entries[i].value = value
			return
		}
	}
}
