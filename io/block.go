package io

import (
	"errors"
	"io"
	"iter"
	"log"
)

const (
	BLOCK_COMMAND  = 0x00
	BLOCK_STATUS   = 0x04
	BLOCK_DMA_ADDR = 0x08
	BLOCK_SECTOR   = 0x0C
	BLOCK_COUNT    = 0x10

	BLOCK_CMD_MASK  = uint32(0xFF)
	BLOCK_CMD_READ  = uint32(1)
	BLOCK_CMD_WRITE = uint32(2)
	BLOCK_CMD_IRQ   = uint32(1 << 8) // Interrupt on completion.

	BLOCK_STATUS_DONE  = uint32(1 << 0) // Write 1 to clear.
	BLOCK_STATUS_ERROR = uint32(1 << 1) // Write 1 to clear.

	SECTOR_SIZE = 512
)

var blockRegs = map[string]uint32{
	"BLOCK_COMMAND":  BLOCK_COMMAND,
	"BLOCK_STATUS":   BLOCK_STATUS,
	"BLOCK_DMA_ADDR": BLOCK_DMA_ADDR,
	"BLOCK_SECTOR":   BLOCK_SECTOR,
	"BLOCK_COUNT":    BLOCK_COUNT,
}

var blockBits = map[string]uint32{
	"BLOCK_CMD_READ":     BLOCK_CMD_READ,
	"BLOCK_CMD_WRITE":    BLOCK_CMD_WRITE,
	"BLOCK_CMD_IRQ":      BLOCK_CMD_IRQ,
	"BLOCK_STATUS_DONE":  BLOCK_STATUS_DONE,
	"BLOCK_STATUS_ERROR": BLOCK_STATUS_ERROR,
	"SECTOR_SIZE":        SECTOR_SIZE,
}

// Storage backs a block device; an *os.File or an *Image.
type Storage interface {
	io.ReaderAt
	io.WriterAt
}

// Block is a sector device that moves whole sectors between its storage
// and physical memory. A command completes in the register write that
// issues it.
type Block struct {
	Verbose bool

	Storage Storage
	Memory  []byte // Physical memory, the DMA target.

	Err       error  // Last transfer error.
	Transfers uint64 // Commands completed without error.

	dma     uint32
	sector  uint32
	count   uint32
	status  uint32
	command uint32
}

var _ Device = (*Block)(nil)

func (block *Block) Name() string {
	return "block"
}

func (block *Block) Base() uint32 {
	return MMIO_BLOCK
}

func (block *Block) Reset() {
	block.dma = 0
	block.sector = 0
	block.count = 0
	block.status = 0
	block.command = 0
	block.Err = nil
}

func (block *Block) Defines() iter.Seq2[string, string] {
	return defines(block.Base(), blockRegs, blockBits)
}

func (block *Block) IRQ() bool {
	return block.command&BLOCK_CMD_IRQ != 0 && block.status != 0
}

func (block *Block) transfer(op uint32) (err error) {
	if block.Storage == nil {
		err = ErrStorageMissing
		return
	}

	size := uint64(block.count) * SECTOR_SIZE
	if uint64(block.dma)+size > uint64(len(block.Memory)) {
		err = ErrDmaRange
		return
	}

	buf := block.Memory[block.dma : uint64(block.dma)+size]
	offset := int64(block.sector) * SECTOR_SIZE

	switch op {
	case BLOCK_CMD_READ:
		var n int
		n, err = block.Storage.ReadAt(buf, offset)
		if errors.Is(err, io.EOF) {
			// Past the end of storage reads as zero.
			clear(buf[n:])
			err = nil
		}
	case BLOCK_CMD_WRITE:
		_, err = block.Storage.WriteAt(buf, offset)
	}

	return
}

func (block *Block) execute() {
	op := block.command & BLOCK_CMD_MASK
	if op != BLOCK_CMD_READ && op != BLOCK_CMD_WRITE {
		block.status |= BLOCK_STATUS_ERROR
		return
	}

	err := block.transfer(op)
	if block.Verbose {
		log.Printf("block: cmd=%d sector=%d count=%d dma=%08x: %v", op, block.sector, block.count, block.dma, err)
	}

	if err != nil {
		block.Err = err
		block.status |= BLOCK_STATUS_ERROR
		return
	}

	block.Transfers++
	block.status |= BLOCK_STATUS_DONE
}

func (block *Block) ReadReg(reg uint32) (value uint32) {
	switch reg {
	case BLOCK_COMMAND:
		value = block.command
	case BLOCK_STATUS:
		value = block.status
	case BLOCK_DMA_ADDR:
		value = block.dma
	case BLOCK_SECTOR:
		value = block.sector
	case BLOCK_COUNT:
		value = block.count
	}
	return
}

func (block *Block) WriteReg(reg uint32, value uint32, mask uint32) {
	switch reg {
	case BLOCK_COMMAND:
		block.command = merge(block.command, value, mask)
		if mask&BLOCK_CMD_MASK != 0 {
			block.execute()
		}
	case BLOCK_STATUS:
		block.status &^= value & mask
	case BLOCK_DMA_ADDR:
		block.dma = merge(block.dma, value, mask)
	case BLOCK_SECTOR:
		block.sector = merge(block.sector, value, mask)
	case BLOCK_COUNT:
		block.count = merge(block.count, value, mask)
	}
}
