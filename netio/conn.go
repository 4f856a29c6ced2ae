//
// Copyright (c) 2019-2023 Markku Rossi
//
// All rights reserved.
//

// Package netio implements gabes's minimal length-framed transport:
// send, receive, send_ack and wait_for_ack over any io.ReadWriter.
package netio

import (
	"encoding/binary"
	"io"
	"sync/atomic"

	"github.com/nachonavarro/gabes/gabeserr"
)

const (
	numBuffers   = 3
	writeBufSize = 64 * 1024
	readBufSize  = 1024 * 1024
)

// Conn is a buffered, length-framed connection. Every Send writes a
// 4-byte big-endian length prefix followed by the payload; every
// Receive reads one such frame. A background writer goroutine owns
// the socket write side so Send never blocks on the network directly.
type Conn struct {
	conn      io.ReadWriter
	writeBuf  []byte
	writePos  int
	readBuf   []byte
	readStart int
	readEnd   int
	Stats     IOStats

	fromWriter chan []byte
	toWriter   chan []byte
	writerErr  error
}

// IOStats counts bytes moved over a Conn, for the end-of-run timing
// report.
type IOStats struct {
	Sent    *atomic.Uint64
	Recvd   *atomic.Uint64
	Flushed *atomic.Uint64
}

// NewIOStats creates a zeroed IOStats.
func NewIOStats() IOStats {
	return IOStats{
		Sent:    new(atomic.Uint64),
		Recvd:   new(atomic.Uint64),
		Flushed: new(atomic.Uint64),
	}
}

// Sum returns the total bytes sent plus received.
func (s IOStats) Sum() uint64 {
	return s.Sent.Load() + s.Recvd.Load()
}

// Add returns the element-wise sum of two IOStats.
func (s IOStats) Add(o IOStats) IOStats {
	sum := NewIOStats()
	sum.Sent.Store(s.Sent.Load() + o.Sent.Load())
	sum.Recvd.Store(s.Recvd.Load() + o.Recvd.Load())
	sum.Flushed.Store(s.Flushed.Load() + o.Flushed.Load())
	return sum
}

// New wraps conn for length-framed send/receive.
func New(conn io.ReadWriter) *Conn {
	c := &Conn{
		conn:       conn,
		readBuf:    make([]byte, readBufSize),
		fromWriter: make(chan []byte, numBuffers),
		toWriter:   make(chan []byte, numBuffers),
		Stats:      NewIOStats(),
	}
	go c.writer()
	c.writeBuf = <-c.fromWriter
	return c
}

func (c *Conn) writer() {
	for i := 0; i < numBuffers; i++ {
		c.fromWriter <- make([]byte, writeBufSize)
	}
	for buf := range c.toWriter {
		if _, err := c.conn.Write(buf); err != nil {
			c.writerErr = err
		}
		c.fromWriter <- buf[0:cap(buf)]
	}
	close(c.fromWriter)
}

// Flush pushes any buffered output onto the wire.
func (c *Conn) Flush() error {
	if c.writePos == 0 {
		return nil
	}
	c.Stats.Sent.Add(uint64(c.writePos))
	c.Stats.Flushed.Add(1)
	c.toWriter <- c.writeBuf[0:c.writePos]
	next := <-c.fromWriter
	if c.writerErr != nil {
		return gabeserr.NewNetworkError(c.writerErr)
	}
	c.writeBuf = next
	c.writePos = 0
	return nil
}

func (c *Conn) needSpace(n int) error {
	if c.writePos+n > len(c.writeBuf) {
		return c.Flush()
	}
	return nil
}

func (c *Conn) fill(n int) error {
	if c.readStart < c.readEnd {
		copy(c.readBuf, c.readBuf[c.readStart:c.readEnd])
		c.readEnd -= c.readStart
		c.readStart = 0
	} else {
		c.readStart, c.readEnd = 0, 0
	}
	for c.readStart+n > c.readEnd {
		got, err := c.conn.Read(c.readBuf[c.readEnd:])
		if err != nil {
			return gabeserr.NewNetworkError(err)
		}
		c.Stats.Recvd.Add(uint64(got))
		c.readEnd += got
	}
	return nil
}

// Send writes one length-framed message: a 4-byte big-endian length
// followed by val, buffered until the caller Flushes (or the buffer
// fills).
func (c *Conn) Send(val []byte) error {
	if err := c.needSpace(4 + len(val)); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(c.writeBuf[c.writePos:], uint32(len(val)))
	c.writePos += 4
	copy(c.writeBuf[c.writePos:], val)
	c.writePos += len(val)
	return nil
}

// Receive blocks until one complete length-framed message has
// arrived and returns its payload.
func (c *Conn) Receive() ([]byte, error) {
	if err := c.fill(4); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint32(c.readBuf[c.readStart:]))
	c.readStart += 4
	if err := c.fill(n); err != nil {
		return nil, err
	}
	val := make([]byte, n)
	copy(val, c.readBuf[c.readStart:c.readStart+n])
	c.readStart += n
	return val, nil
}

// SendAck writes a single acknowledgement byte and flushes it
// immediately, since it is always used as a synchronization barrier.
func (c *Conn) SendAck() error {
	if err := c.needSpace(1); err != nil {
		return err
	}
	c.writeBuf[c.writePos] = 1
	c.writePos++
	return c.Flush()
}

// WaitForAck blocks until the one-byte acknowledgement written by
// SendAck arrives.
func (c *Conn) WaitForAck() error {
	if err := c.fill(1); err != nil {
		return err
	}
	c.readStart++
	return nil
}

// Close flushes any pending output and closes the underlying
// connection, if it supports that.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	close(c.toWriter)
	for range c.fromWriter {
	}
	if c.writerErr != nil {
		return gabeserr.NewNetworkError(c.writerErr)
	}
	if closer, ok := c.conn.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
