package remote

import (
	"context"
	"encoding/json"
	"image/color"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

type nopRenderer struct{}

func (nopRenderer) Mount(dial.Layout) error              { return nil }
func (nopRenderer) Unmount()                             {}
func (nopRenderer) ClearRegion()                         {}
func (nopRenderer) DrawStepTicks(dial.Layout)            {}
func (nopRenderer) DrawProgressArc(float64, color.Color) {}
func (nopRenderer) DrawHandle(dial.Point)                {}

func newWatchedDial(t *testing.T, s *Server) *dial.Dial {
	t.Helper()
	d, err := dial.New(dial.Config{
		Name: "volume", Min: -40, Max: 0, Step: 1, Radius: 80,
		Renderer: nopRenderer{}, Scheduler: dial.NewFrameScheduler(),
	})
	if err != nil {
		t.Fatalf("dial.New: %v", err)
	}
	if err := s.Watch(d); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	return d
}

func startServer(t *testing.T) (*Server, string, context.CancelFunc) {
	t.Helper()
	s := NewServer(slog.Default(), ServerConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	mux := http.NewServeMux()
	s.Register(mux, "/ws")
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	t.Cleanup(cancel)
	return s, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws", cancel
}

func readFrame(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return env.Type, env.Data
}

func TestServerSendsStateInitOnConnect(t *testing.T) {
	s, url, _ := startServer(t)
	d := newWatchedDial(t, s)
	d.SetValue(-12)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	typ, data := readFrame(t, conn)
	if typ != TypeStateInit {
		t.Fatalf("first frame should be state_init, got %q", typ)
	}
	var init stateInitData
	if err := json.Unmarshal(data, &init); err != nil {
		t.Fatal(err)
	}
	if init.ClientID == "" {
		t.Fatal("state_init should carry the client id")
	}
	if len(init.Dials) != 1 {
		t.Fatalf("want one dial, got %+v", init.Dials)
	}
	got := init.Dials[0]
	if got.Name != "volume" || got.Target != -12 || got.Value != -40 || got.Min != -40 || got.Max != 0 || got.Step != 1 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestServerBroadcastsDialEvents(t *testing.T) {
	s, url, _ := startServer(t)
	d := newWatchedDial(t, s)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()
	readFrame(t, conn) // state_init
	waitUntil(t, time.Second, func() bool { return s.Hub().Len() == 1 }, "client not registered")

	d.SetValue(-20)

	typ, data := readFrame(t, conn)
	if typ != TypeSet {
		t.Fatalf("want set frame, got %q", typ)
	}
	var v valueData
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatal(err)
	}
	if v.Dial != "volume" || v.Value != -20 {
		t.Fatalf("unexpected payload %+v", v)
	}
}

func TestServerQueuesSetValueCommands(t *testing.T) {
	s, url, _ := startServer(t)
	newWatchedDial(t, s)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()
	_, data := readFrame(t, conn)
	var init stateInitData
	_ = json.Unmarshal(data, &init)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"set_value","data":{"dial":"volume","value":-6}}`)); err != nil {
		t.Fatal(err)
	}

	select {
	case cmd := <-s.Commands():
		if cmd.Dial != "volume" || cmd.Value != -6 || cmd.ClientID != init.ClientID {
			t.Fatalf("unexpected command %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("set_value not queued")
	}
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "valid", in: `{"type":"set_value","data":{"dial":"speed","value":1.5}}`},
		{name: "not json", in: `set 1`, wantErr: true},
		{name: "wrong type", in: `{"type":"change","data":{"dial":"speed","value":1}}`, wantErr: true},
		{name: "missing dial", in: `{"type":"set_value","data":{"value":1}}`, wantErr: true},
		{name: "bad data", in: `{"type":"set_value","data":"x"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := decodeCommand([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("want error, got %+v", cmd)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cmd.Dial != "speed" || cmd.Value != 1.5 {
				t.Fatalf("unexpected command %+v", cmd)
			}
		})
	}
}
