package shotcli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

// fakeDaemon answers requests on conn with reply(method, message).
// Returned frames are written in order; an empty slice closes nothing.
func fakeDaemon(t *testing.T, conn net.Conn, reply func(req Request, raw json.RawMessage) [][]byte) {
	t.Helper()
	go func() {
		for {
			buf, err := read(conn)
			if err != nil {
				return
			}
			var req struct {
				Method  common.UpdateType `json:"method"`
				Message json.RawMessage   `json:"message"`
			}
			if err := json.Unmarshal(buf, &req); err != nil {
				t.Errorf("bad request: %v", err)
				return
			}
			for _, frame := range reply(Request{Method: req.Method}, req.Message) {
				if err := write(conn, frame); err != nil {
					return
				}
			}
		}
	}()
}

func okFrame(utype common.UpdateType, msg any) []byte {
	raw, _ := json.Marshal(msg)
	b, _ := json.Marshal(Response{Ok: true, Update: &Update{Type: utype, Message: raw}})
	return b
}

func errFrame(msg string) []byte {
	b, _ := json.Marshal(Response{Ok: false, Error: msg})
	return b
}

func TestFramingRoundTrip(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	msg := []byte("hello")
	go func() { _ = write(c1, msg) }()
	got, err := read(c2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(msg) {
		t.Fatalf("unexpected payload: %s", got)
	}
	if err := write(c1, make([]byte, common.MaxMessageSize+1)); err == nil {
		t.Fatal("expected oversize error")
	}
}

func TestDispatcherProcess(t *testing.T) {
	d := NewDispatcher()
	frame := okFrame(common.UPDATE_CYCLE, shotlib.CycleResult{ID: "x"})
	if err := d.process(frame); err == nil {
		t.Fatal("expected error for missing handler")
	}
	calls := 0
	d.AddHandler(common.UPDATE_CYCLE, HandlerFunc(func(json.RawMessage) error { calls++; return nil }))
	d.AddHandler(common.UPDATE_CYCLE, HandlerFunc(func(json.RawMessage) error { calls++; return nil }))
	if err := d.process(frame); err != nil {
		t.Fatalf("process: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected both handlers to run, got %d", calls)
	}
	if err := d.process(errFrame("daemon said no")); err == nil || err.Error() != "daemon said no" {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if err := d.process([]byte("garbage")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCycleHandlerFiltersSkipped(t *testing.T) {
	var got []string
	h := NewCycleHandler(false, func(r *shotlib.CycleResult) error {
		got = append(got, r.ID)
		return nil
	})
	skipped, _ := json.Marshal(shotlib.CycleResult{ID: "s", Skipped: true})
	ran, _ := json.Marshal(shotlib.CycleResult{ID: "r", Successes: 1})
	_ = h.Handle(skipped)
	_ = h.Handle(ran)
	if len(got) != 1 || got[0] != "r" {
		t.Fatalf("expected only the ran cycle, got %v", got)
	}
	h.IncludeSkipped = true
	_ = h.Handle(skipped)
	if len(got) != 2 {
		t.Fatalf("expected skipped cycle with IncludeSkipped, got %v", got)
	}
	if err := h.Handle(json.RawMessage("{")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestInvokeMethods(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	var seen []common.UpdateType
	fakeDaemon(t, c2, func(req Request, raw json.RawMessage) [][]byte {
		seen = append(seen, req.Method)
		switch req.Method {
		case common.UPDATE_START:
			var p common.StartParams
			_ = json.Unmarshal(raw, &p)
			return [][]byte{okFrame(req.Method, common.StartResponse{Config: p.Configuration})}
		case common.UPDATE_STATUS:
			return [][]byte{okFrame(req.Method, common.StatusResponse{State: "running", Backend: "synthetic"})}
		case common.UPDATE_LOCK:
			var p common.LockParams
			_ = json.Unmarshal(raw, &p)
			return [][]byte{okFrame(req.Method, common.LockResponse{Locked: p.Locked})}
		case common.UPDATE_VERSION:
			return [][]byte{okFrame(req.Method, common.VersionResponse{Version: "9.9.9"})}
		case common.UPDATE_DETACH:
			b, _ := json.Marshal(Response{Ok: true, Update: &Update{Type: req.Method}})
			return [][]byte{b}
		default:
			return [][]byte{errFrame("unknown method: " + string(req.Method))}
		}
	})

	c := NewClientWithConn(c1)
	start, err := c.Start(shotlib.Configuration{IntervalMinutes: 4, SaveDirectory: "/x"}, false)
	if err != nil || start.Config.IntervalMinutes != 4 {
		t.Fatalf("Start: %+v %v", start, err)
	}
	st, err := c.Status()
	if err != nil || st.State != "running" {
		t.Fatalf("Status: %+v %v", st, err)
	}
	lock, err := c.SetLocked(true)
	if err != nil || !lock.Locked {
		t.Fatalf("SetLocked: %+v %v", lock, err)
	}
	v, err := c.GetDaemonVersion()
	if err != nil || v.Version != "9.9.9" {
		t.Fatalf("GetDaemonVersion: %+v %v", v, err)
	}
	if err := c.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if _, err := c.History(5); err == nil || !strings.Contains(err.Error(), "unknown method") {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 requests, got %v", seen)
	}
}

func TestInvokeSkipsPushedCycles(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	fakeDaemon(t, c2, func(req Request, raw json.RawMessage) [][]byte {
		return [][]byte{
			okFrame(common.UPDATE_CYCLE, shotlib.CycleResult{ID: "pushed"}),
			okFrame(req.Method, common.StopResponse{WasRunning: true}),
		}
	})

	c := NewClientWithConn(c1)
	var pushed []string
	c.AddHandler(common.UPDATE_CYCLE, NewCycleHandler(true, func(r *shotlib.CycleResult) error {
		pushed = append(pushed, r.ID)
		return nil
	}))
	res, err := c.Stop()
	if err != nil || !res.WasRunning {
		t.Fatalf("Stop: %+v %v", res, err)
	}
	if len(pushed) != 1 || pushed[0] != "pushed" {
		t.Fatalf("expected pushed cycle to reach handler, got %v", pushed)
	}
}

func TestListenUntilDisconnect(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	c := NewClientWithConn(c1)
	n := 0
	c.AddHandler(common.UPDATE_CYCLE, HandlerFunc(func(json.RawMessage) error {
		n++
		if n == 3 {
			return ErrDisconnect
		}
		return nil
	}))
	go func() {
		for i := 0; i < 3; i++ {
			_ = write(c2, okFrame(common.UPDATE_CYCLE, shotlib.CycleResult{ID: fmt.Sprint(i)}))
		}
	}()
	if err := c.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 events, got %d", n)
	}
}

func TestListenHandlerError(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	c := NewClientWithConn(c1)
	boom := errors.New("boom")
	c.AddHandler(common.UPDATE_CYCLE, HandlerFunc(func(json.RawMessage) error { return boom }))
	go func() { _ = write(c2, okFrame(common.UPDATE_CYCLE, shotlib.CycleResult{})) }()
	if err := c.Listen(); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestCheckVersionMismatch(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()
	fakeDaemon(t, c2, func(req Request, raw json.RawMessage) [][]byte {
		return [][]byte{okFrame(req.Method, common.VersionResponse{Version: "1.0.0"})}
	})
	c := NewClientWithConn(c1)
	t.Setenv(common.SuppressVersionCheckEnv, "")

	var buf bytes.Buffer
	c.checkVersionMismatch(&buf, "1.0.0")
	if buf.Len() != 0 {
		t.Fatalf("matching versions should be silent, got %q", buf.String())
	}
	c.checkVersionMismatch(&buf, "2.0.0")
	if !strings.Contains(buf.String(), "differs from daemon version (1.0.0)") {
		t.Fatalf("expected mismatch warning, got %q", buf.String())
	}

	buf.Reset()
	t.Setenv(common.SuppressVersionCheckEnv, "1")
	c.checkVersionMismatch(&buf, "2.0.0")
	if buf.Len() != 0 {
		t.Fatalf("suppressed check should be silent, got %q", buf.String())
	}
}

func TestTCPPort(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"", common.DefaultTCPPort},
		{"4000", 4000},
		{"not-a-number", common.DefaultTCPPort},
		{"70000", common.DefaultTCPPort},
		{"0", common.DefaultTCPPort},
	}
	for _, tt := range tests {
		t.Setenv(common.TCPPortEnv, tt.env)
		if got := tcpPort(); got != tt.want {
			t.Errorf("tcpPort() with %q = %d, want %d", tt.env, got, tt.want)
		}
	}
}

func TestWaitForDaemon(t *testing.T) {
	calls := 0
	err := waitForDaemon(func() bool {
		calls++
		return calls == 3
	}, time.Second)
	if err != nil {
		t.Fatalf("waitForDaemon: %v", err)
	}
	if err := waitForDaemon(func() bool { return false }, 60*time.Millisecond); err == nil {
		t.Fatal("expected timeout")
	}
}

func TestConnectOverTCP(t *testing.T) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	t.Setenv(common.TCPPortEnv, fmt.Sprint(l.Addr().(*net.TCPAddr).Port))
	t.Setenv(common.ForceTCPEnv, "1")

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, err := read(conn); err != nil {
			return
		}
		_ = write(conn, okFrame(common.UPDATE_VERSION, common.VersionResponse{Version: "tcp"}))
	}()

	oldEnsure := ensureDaemonFunc
	ensureDaemonFunc = func() error { return nil }
	defer func() { ensureDaemonFunc = oldEnsure }()

	c, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()
	v, err := c.GetDaemonVersion()
	if err != nil || v.Version != "tcp" {
		t.Fatalf("GetDaemonVersion: %+v %v", v, err)
	}
}

func TestNewClientSpawnFailure(t *testing.T) {
	oldEnsure := ensureDaemonFunc
	ensureDaemonFunc = func() error { return errors.New("spawn failed") }
	defer func() { ensureDaemonFunc = oldEnsure }()
	if _, err := NewClient(); err == nil {
		t.Fatal("expected spawn error")
	}
}
