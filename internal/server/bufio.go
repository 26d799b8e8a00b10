package server

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/autoshot/autoshot/common"
)

// Frames on the daemon connection are a little-endian uint32 length
// followed by that many bytes of JSON.

func intToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func bytesToInt(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func read(mu *sync.Mutex, conn net.Conn) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	head := make([]byte, 4)
	if _, err := io.ReadFull(conn, head); err != nil {
		return nil, err
	}
	n := bytesToInt(head)
	if n > common.MaxMessageSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit of %d", n, common.MaxMessageSize)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func write(mu *sync.Mutex, conn net.Conn, b []byte) error {
	if len(b) > common.MaxMessageSize {
		return fmt.Errorf("frame of %d bytes exceeds limit of %d", len(b), common.MaxMessageSize)
	}
	mu.Lock()
	defer mu.Unlock()
	// single write so a concurrent reader never sees a header without its body
	frame := append(intToBytes(uint32(len(b))), b...)
	_, err := conn.Write(frame)
	return err
}
