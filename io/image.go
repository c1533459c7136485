package io

import (
	"io"
)

// Image is an in-memory disk that grows on write up to Capacity bytes.
// Zero Capacity means unlimited.
type Image struct {
	Capacity int64
	Data     []byte
}

var _ Storage = (*Image)(nil)

// Unmarshal loads the image from a reader, replacing any existing data.
func (image *Image) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	image.Data = data
	return
}

// Marshal writes the image to a writer.
func (image *Image) Marshal(file io.Writer) (err error) {
	_, err = file.Write(image.Data)
	return
}

func (image *Image) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(image.Data)) {
		err = io.EOF
		return
	}

	n = copy(p, image.Data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return
}

func (image *Image) WriteAt(p []byte, off int64) (n int, err error) {
	end := off + int64(len(p))
	if image.Capacity != 0 && end > image.Capacity {
		err = ErrImageFull
		return
	}

	if end > int64(len(image.Data)) {
		image.Data = append(image.Data, make([]byte, end-int64(len(image.Data)))...)
	}

	n = copy(image.Data[off:], p)
	return
}
