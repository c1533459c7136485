package io

import (
	"errors"

	"github.com/ezrec/m65832/translate"
)

var f = translate.From

var (
	ErrFifoFull       = errors.New(f("fifo full"))
	ErrStorageMissing = errors.New(f("block device has no storage"))
	ErrDmaRange       = errors.New(f("dma transfer outside physical memory"))
	ErrImageFull      = errors.New(f("disk image full"))
)
