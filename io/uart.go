package io

import (
	"io"
	"iter"
	"log"
)

const (
	UART_STATUS  = 0x00
	UART_TX      = 0x04
	UART_RX      = 0x08
	UART_CONTROL = 0x0C

	UART_STATUS_RX_READY = uint32(1 << 0)
	UART_STATUS_TX_READY = uint32(1 << 1)
	UART_STATUS_RX_EOF   = uint32(1 << 2) // Host input closed and drained.

	UART_CONTROL_RX_IRQ = uint32(1 << 0)

	UART_RX_CAPACITY = 256
)

var uartRegs = map[string]uint32{
	"UART_STATUS":  UART_STATUS,
	"UART_TX":      UART_TX,
	"UART_RX":      UART_RX,
	"UART_CONTROL": UART_CONTROL,
}

var uartBits = map[string]uint32{
	"UART_STATUS_RX_READY": UART_STATUS_RX_READY,
	"UART_STATUS_TX_READY": UART_STATUS_TX_READY,
	"UART_STATUS_RX_EOF":   UART_STATUS_RX_EOF,
	"UART_CONTROL_RX_IRQ":  UART_CONTROL_RX_IRQ,
}

// Uart is a byte serial port. Transmitted bytes go to Output; received
// bytes arrive on Input, usually fed by Attach from a host reader on
// another goroutine.
type Uart struct {
	Verbose bool

	Output io.Writer
	Input  <-chan byte

	Err error // Last error from Output.

	rx      Fifo
	control uint32
	eof     bool
}

var _ Device = (*Uart)(nil)

// NewUart creates a UART writing to output.
func NewUart(output io.Writer) (uart *Uart) {
	uart = &Uart{
		Output: output,
		rx:     Fifo{Capacity: UART_RX_CAPACITY},
	}
	uart.Reset()
	return
}

// Attach starts a goroutine that feeds bytes from the reader to Input
// until the reader fails.
func (uart *Uart) Attach(r io.Reader) {
	input := make(chan byte, UART_RX_CAPACITY)
	uart.Input = input
	uart.eof = false

	go func() {
		defer close(input)
		var one [1]byte
		for {
			n, err := r.Read(one[:])
			if n == 1 {
				input <- one[0]
			}
			if err != nil {
				return
			}
		}
	}()
}

func (uart *Uart) Name() string {
	return "uart"
}

func (uart *Uart) Base() uint32 {
	return MMIO_UART
}

func (uart *Uart) Reset() {
	uart.rx.Rewind()
	uart.control = 0
}

func (uart *Uart) Defines() iter.Seq2[string, string] {
	return defines(uart.Base(), uartRegs, uartBits)
}

// poll moves waiting host input into the receive fifo without blocking.
func (uart *Uart) poll() {
	for uart.Input != nil && !uart.rx.Full() {
		select {
		case b, ok := <-uart.Input:
			if !ok {
				uart.Input = nil
				uart.eof = true
				return
			}
			uart.rx.Push(b)
		default:
			return
		}
	}
}

func (uart *Uart) IRQ() bool {
	uart.poll()
	return uart.control&UART_CONTROL_RX_IRQ != 0 && uart.rx.Size > 0
}

func (uart *Uart) ReadReg(reg uint32) (value uint32) {
	uart.poll()

	switch reg {
	case UART_STATUS:
		value = UART_STATUS_TX_READY
		if uart.rx.Size > 0 {
			value |= UART_STATUS_RX_READY
		} else if uart.eof {
			value |= UART_STATUS_RX_EOF
		}
	case UART_RX:
		b, _ := uart.rx.Pop()
		value = uint32(b)
	case UART_CONTROL:
		value = uart.control
	}
	return
}

func (uart *Uart) WriteReg(reg uint32, value uint32, mask uint32) {
	switch reg {
	case UART_TX:
		if mask&0xFF == 0 || uart.Output == nil {
			return
		}
		_, err := uart.Output.Write([]byte{byte(value)})
		if err != nil {
			uart.Err = err
			if uart.Verbose {
				log.Printf("uart: %v", err)
			}
		}
	case UART_CONTROL:
		uart.control = merge(uart.control, value, mask)
	}
}
