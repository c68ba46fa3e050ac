package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrymomot/plugsession/pkg/cookie"
)

// Serializer converts session records to bytes and back. Decode must fail
// with an error wrapping ErrDecode on malformed input.
type Serializer interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// JSONSerializer is the default Serializer.
type JSONSerializer struct{}

func (JSONSerializer) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONSerializer) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return v, nil
}

// signedSerializer signs encoded records so that a backend shared with other
// writers cannot inject session state.
type signedSerializer struct {
	signer *cookie.Signer
	inner  Serializer
}

func (s signedSerializer) Encode(v any) ([]byte, error) {
	data, err := s.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return []byte(s.signer.Sign(data)), nil
}

func (s signedSerializer) Decode(data []byte) (any, error) {
	raw, err := s.signer.Verify(string(data))
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return s.inner.Decode(raw)
}

// Record is the persisted form of a session.
type Record struct {
	Renewed time.Time
	Created time.Time
	State   map[string]any
}

// EncodeRecord serializes r as the tuple (renewed, created, state) with
// timestamps in fractional seconds since the epoch.
func EncodeRecord(s Serializer, r Record) ([]byte, error) {
	state := r.State
	if state == nil {
		state = map[string]any{}
	}
	return s.Encode([]any{epochSeconds(r.Renewed), epochSeconds(r.Created), state})
}

// DecodeRecord reverses EncodeRecord. Serializer failures wrap ErrDecode,
// shape failures wrap ErrMalformedRecord.
func DecodeRecord(s Serializer, data []byte) (Record, error) {
	v, err := s.Decode(data)
	if err != nil {
		return Record{}, err
	}
	return parseRecord(v)
}

func parseRecord(v any) (Record, error) {
	tuple, ok := v.([]any)
	if !ok {
		return Record{}, fmt.Errorf("%w: expected a 3-tuple, got %T", ErrMalformedRecord, v)
	}
	if len(tuple) != 3 {
		return Record{}, fmt.Errorf("%w: expected 3 elements, got %d", ErrMalformedRecord, len(tuple))
	}

	renewed, err := toEpoch(tuple[0])
	if err != nil {
		return Record{}, fmt.Errorf("%w: renewed: %w", ErrMalformedRecord, err)
	}
	created, err := toEpoch(tuple[1])
	if err != nil {
		return Record{}, fmt.Errorf("%w: created: %w", ErrMalformedRecord, err)
	}
	state, ok := tuple[2].(map[string]any)
	if !ok {
		return Record{}, fmt.Errorf("%w: state is %T, not an object", ErrMalformedRecord, tuple[2])
	}

	return Record{Renewed: renewed, Created: created, State: state}, nil
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func toEpoch(v any) (time.Time, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return time.Time{}, err
		}
		f = parsed
	default:
		return time.Time{}, fmt.Errorf("not a number: %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("not a finite number: %v", f)
	}

	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), nil
}
