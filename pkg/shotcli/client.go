// Package shotcli is the client side of the daemon's framed socket
// protocol. A Client issues requests one at a time; after Attach it can
// Listen for pushed cycle events.
package shotcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/autoshot/autoshot/common"
)

type Client struct {
	mu   sync.Mutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient connects to the daemon, spawning it first if nothing answers.
func NewClient() (*Client, error) {
	if err := ensureDaemonFunc(); err != nil {
		return nil, err
	}
	return Connect()
}

// Connect connects to a running daemon without trying to start one.
func Connect() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	return NewClientWithConn(conn), nil
}

// NewClientWithConn wraps an established connection.
func NewClientWithConn(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		d:    NewDispatcher(),
	}
}

// AddHandler registers h for pushed updates of type utype.
func (c *Client) AddHandler(utype common.UpdateType, h Handler) {
	c.d.AddHandler(utype, h)
}

// Listen dispatches pushed updates until the connection closes or a
// handler returns ErrDisconnect. It must not run alongside a request.
func (c *Client) Listen() error {
	for {
		buf, err := read(c.conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("error reading: %w", err)
		}
		if err = c.d.process(buf); err != nil {
			if errors.Is(err, ErrDisconnect) {
				return nil
			}
			return fmt.Errorf("error processing: %w", err)
		}
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	if err = write(c.conn, buf); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	for {
		buf, err = read(c.conn)
		if err != nil {
			return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
		}
		var res Response
		if err = json.Unmarshal(buf, &res); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", method, err)
		}
		// an attached connection may see cycle events before the reply
		if res.Ok && res.Update != nil && res.Update.Type == common.UPDATE_CYCLE && method != common.UPDATE_CYCLE {
			_ = c.d.process(buf)
			continue
		}
		if !res.Ok {
			return nil, errors.New(res.Error)
		}
		if res.Update == nil {
			return nil, nil
		}
		return res.Update.Message, nil
	}
}
