package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBlock() (block *Block, image *Image) {
	image = &Image{}
	block = &Block{
		Storage: image,
		Memory:  make([]byte, 4*SECTOR_SIZE),
	}
	block.Reset()
	return
}

func TestBlock_WriteRead(t *testing.T) {
	assert := assert.New(t)

	block, image := newBlock()
	for n := range SECTOR_SIZE {
		block.Memory[n] = byte(n)
	}

	block.WriteReg(BLOCK_DMA_ADDR, 0, 0xFFFF_FFFF)
	block.WriteReg(BLOCK_SECTOR, 2, 0xFFFF_FFFF)
	block.WriteReg(BLOCK_COUNT, 1, 0xFFFF_FFFF)
	block.WriteReg(BLOCK_COMMAND, BLOCK_CMD_WRITE, 0xFFFF_FFFF)

	assert.Equal(BLOCK_STATUS_DONE, block.ReadReg(BLOCK_STATUS))
	assert.Len(image.Data, 3*SECTOR_SIZE)
	assert.Equal(block.Memory[:SECTOR_SIZE], image.Data[2*SECTOR_SIZE:])

	block.WriteReg(BLOCK_STATUS, BLOCK_STATUS_DONE, 0xFF)
	assert.Zero(block.ReadReg(BLOCK_STATUS))

	// Two sectors: the stored one, then one past the end that reads as zero.
	block.Memory[3*SECTOR_SIZE] = 0xAA
	block.WriteReg(BLOCK_DMA_ADDR, 2*SECTOR_SIZE, 0xFFFF_FFFF)
	block.WriteReg(BLOCK_COUNT, 2, 0xFFFF_FFFF)
	block.WriteReg(BLOCK_COMMAND, BLOCK_CMD_READ, 0xFFFF_FFFF)

	assert.Equal(BLOCK_STATUS_DONE, block.ReadReg(BLOCK_STATUS))
	assert.Equal(block.Memory[:SECTOR_SIZE], block.Memory[2*SECTOR_SIZE:3*SECTOR_SIZE])
	assert.Equal(byte(0), block.Memory[3*SECTOR_SIZE])
	assert.Equal(uint64(2), block.Transfers)
}

func TestBlock_Errors(t *testing.T) {
	table := [...]struct {
		name  string
		setup func(block *Block)
		cmd   uint32
		err   error
	}{
		{"no storage", func(block *Block) { block.Storage = nil }, BLOCK_CMD_READ, ErrStorageMissing},
		{"dma range", func(block *Block) { block.WriteReg(BLOCK_DMA_ADDR, 3*SECTOR_SIZE, 0xFFFF_FFFF) }, BLOCK_CMD_READ, ErrDmaRange},
		{"full", func(block *Block) { block.Storage = &Image{Capacity: SECTOR_SIZE} }, BLOCK_CMD_WRITE, ErrImageFull},
		{"bad command", func(block *Block) {}, 7, nil},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			block, _ := newBlock()
			block.WriteReg(BLOCK_COUNT, 2, 0xFFFF_FFFF)
			entry.setup(block)
			block.WriteReg(BLOCK_COMMAND, entry.cmd|BLOCK_CMD_IRQ, 0xFFFF_FFFF)

			assert.Equal(BLOCK_STATUS_ERROR, block.ReadReg(BLOCK_STATUS))
			assert.True(block.IRQ())
			if entry.err != nil {
				assert.ErrorIs(block.Err, entry.err)
			}
			assert.Zero(block.Transfers)
		})
	}
}

func TestBlock_IRQ(t *testing.T) {
	assert := assert.New(t)

	block, _ := newBlock()
	block.WriteReg(BLOCK_COUNT, 1, 0xFFFF_FFFF)
	block.WriteReg(BLOCK_COMMAND, BLOCK_CMD_WRITE, 0xFFFF_FFFF)
	assert.False(block.IRQ())

	block.WriteReg(BLOCK_COMMAND, BLOCK_CMD_WRITE|BLOCK_CMD_IRQ, 0xFFFF_FFFF)
	assert.True(block.IRQ())

	block.WriteReg(BLOCK_STATUS, 0xFFFF_FFFF, 0xFFFF_FFFF)
	assert.False(block.IRQ())

	// Enabling the interrupt from the second byte lane does not run a command.
	block.WriteReg(BLOCK_COMMAND, BLOCK_CMD_IRQ, 0xFF00)
	assert.Zero(block.ReadReg(BLOCK_STATUS))
	assert.Equal(uint64(2), block.Transfers)
}

func TestImage(t *testing.T) {
	assert := assert.New(t)

	image := &Image{}
	assert.NoError(image.Unmarshal(bytes.NewReader([]byte("hello"))))

	buf := make([]byte, 3)
	n, err := image.ReadAt(buf, 3)
	assert.Equal(2, n)
	assert.Error(err)
	assert.Equal([]byte("lo"), buf[:n])

	n, err = image.WriteAt([]byte("!!"), 6)
	assert.NoError(err)
	assert.Equal(2, n)

	var out bytes.Buffer
	assert.NoError(image.Marshal(&out))
	assert.Equal("hello\x00!!", out.String())
}
