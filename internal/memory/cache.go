package memory

// CompiledBlock is a unit of translated guest code owned by the
// execution collaborator. The core never creates or executes blocks; it
// only frees them when a store lands in memory they were translated
// from.
type CompiledBlock interface {
	// Live reports whether the block still holds translated code.
	Live() bool
	// EndAddress returns the guest address one past the last byte the
	// block was translated from.
	EndAddress() uint16
}

// CodeCache exposes the collaborator's table of blocks compiled out of
// high memory, keyed by the displacement of their start address from
// 0xff80.
type CodeCache interface {
	// BlockAt returns the block anchored at the given high memory
	// offset, or nil when none was compiled there.
	BlockAt(offset uint16) CompiledBlock
	// Free releases the resources attached to block and marks it dead.
	Free(block CompiledBlock)
}

// invalidateBlocks frees every live compiled block anchored before
// address whose translated range extends beyond it. High memory is
// executed directly by the translation cache, so any guest store there
// is a potential self-modifying-code event; the range check is
// deliberately conservative and never inspects the stored value.
func (m *Memory) invalidateBlocks(address uint16) {
	if m.cache == nil {
		return
	}
	for offset := uint16(0); offset < address-highMemBase; offset++ {
		block := m.cache.BlockAt(offset)
		if block == nil || !block.Live() {
			continue
		}
		if block.EndAddress() > address {
			m.cache.Free(block)
		}
	}
}
