package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec frames envelopes on a byte stream.
type Codec interface {
	Name() string
	Encode(w io.Writer, env Envelope) error
	NewDecoder(r io.Reader) Decoder
}

// Decoder reads successive envelopes. Decode returns io.EOF once the
// stream is exhausted.
type Decoder interface {
	Decode() (Envelope, error)
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "json", "":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (expected json or msgpack)", name)
	}
}

// JSONCodec writes one JSON envelope per line.
type JSONCodec struct{}

// Name implements Codec.
func (JSONCodec) Name() string { return "json" }

// Encode implements Codec.
func (JSONCodec) Encode(w io.Writer, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	raw = append(raw, '\n')
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

// NewDecoder implements Codec.
func (JSONCodec) NewDecoder(r io.Reader) Decoder {
	return &jsonDecoder{dec: json.NewDecoder(bufio.NewReader(r))}
}

type jsonDecoder struct {
	dec *json.Decoder
}

func (d *jsonDecoder) Decode() (Envelope, error) {
	var env Envelope
	if err := d.dec.Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return Envelope{}, io.EOF
		}
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// MsgpackCodec writes envelopes as consecutive MessagePack maps. The event
// data keeps its JSON shape: it is converted to generic maps and arrays
// before encoding.
type MsgpackCodec struct{}

// Name implements Codec.
func (MsgpackCodec) Name() string { return "msgpack" }

type wireEvent struct {
	Name      string `msgpack:"name"`
	Data      any    `msgpack:"data,omitempty"`
	ContextID string `msgpack:"contextId,omitempty"`
}

type wireMessage struct {
	Product string    `msgpack:"product"`
	Event   wireEvent `msgpack:"event"`
}

type wireEnvelope struct {
	GDC wireMessage `msgpack:"gdc"`
}

// Encode implements Codec.
func (MsgpackCodec) Encode(w io.Writer, env Envelope) error {
	wire := wireEnvelope{GDC: wireMessage{
		Product: env.GDC.Product,
		Event: wireEvent{
			Name:      env.GDC.Event.Name,
			ContextID: env.GDC.Event.ContextID,
		},
	}}
	if len(env.GDC.Event.Data) > 0 {
		var data any
		if err := json.Unmarshal(env.GDC.Event.Data, &data); err != nil {
			return fmt.Errorf("encode envelope data: %w", err)
		}
		wire.GDC.Event.Data = data
	}
	if err := msgpack.NewEncoder(w).Encode(wire); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return nil
}

// NewDecoder implements Codec.
func (MsgpackCodec) NewDecoder(r io.Reader) Decoder {
	return &msgpackDecoder{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

type msgpackDecoder struct {
	dec *msgpack.Decoder
}

func (d *msgpackDecoder) Decode() (Envelope, error) {
	var wire wireEnvelope
	if err := d.dec.Decode(&wire); err != nil {
		if errors.Is(err, io.EOF) {
			return Envelope{}, io.EOF
		}
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	env := Envelope{GDC: Message{
		Product: wire.GDC.Product,
		Event: Event{
			Name:      wire.GDC.Event.Name,
			ContextID: wire.GDC.Event.ContextID,
		},
	}}
	if wire.GDC.Event.Data != nil {
		raw, err := json.Marshal(wire.GDC.Event.Data)
		if err != nil {
			return Envelope{}, fmt.Errorf("decode envelope data: %w", err)
		}
		env.GDC.Event.Data = raw
	}
	return env, nil
}
