package shotcli

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/autoshot/autoshot/common"
)

func read(conn net.Conn) ([]byte, error) {
	head := make([]byte, 4)
	if _, err := io.ReadFull(conn, head); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(head)
	if size > uint32(common.MaxMessageSize) {
		return nil, fmt.Errorf("payload too large: %d", size)
	}
	buf := make([]byte, int(size))
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func write(conn net.Conn, b []byte) error {
	if len(b) > common.MaxMessageSize {
		return fmt.Errorf("payload too large: %d", len(b))
	}
	frame := make([]byte, 4, 4+len(b))
	binary.LittleEndian.PutUint32(frame, uint32(len(b)))
	_, err := conn.Write(append(frame, b...))
	return err
}
