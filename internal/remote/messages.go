package remote

import (
	"encoding/json"
	"fmt"
	"time"
)

// Frame types on the wire.
const (
	TypeStateInit = "state_init"
	TypeSet       = "set"
	TypeChange    = "change"
	TypeSetValue  = "set_value"
)

// envelope is the wire format of every frame: {type, ts, data}.
type envelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DialState is one dial in the state_init snapshot.
type DialState struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Step   float64 `json:"step"`
}

// stateInitData is the payload of state_init.
type stateInitData struct {
	ClientID string      `json:"client_id"`
	Dials    []DialState `json:"dials"`
}

// valueData is the payload of set, change and set_value.
type valueData struct {
	Dial  string  `json:"dial"`
	Value float64 `json:"value"`
}

// Command is an inbound request to move a dial's target.
type Command struct {
	ClientID string
	Dial     string
	Value    float64
}

func encodeFrame(typ string, data any, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", typ, err)
	}
	env := envelope{Type: typ, Data: raw}
	if !at.IsZero() {
		env.Ts = &at
	}
	return json.Marshal(env)
}

// decodeCommand parses an inbound frame. Only set_value is accepted.
func decodeCommand(msg []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Command{}, fmt.Errorf("decode frame: %w", err)
	}
	if env.Type != TypeSetValue {
		return Command{}, fmt.Errorf("unsupported frame type %q", env.Type)
	}
	var d valueData
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return Command{}, fmt.Errorf("decode %s data: %w", env.Type, err)
	}
	if d.Dial == "" {
		return Command{}, fmt.Errorf("%s: missing dial name", env.Type)
	}
	return Command{Dial: d.Dial, Value: d.Value}, nil
}
