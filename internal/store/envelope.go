package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Meta carries the provenance and freshness metadata written alongside every
// cached payload. Extra holds caller-supplied fields (query params, location,
// etc.) that are flattened into the same JSON object as the known keys.
type Meta struct {
	Source     string
	FetchedAt  time.Time
	ValidUntil *time.Time
	Extra      map[string]any
}

// Envelope is the persisted form of a cached dataset: metadata plus an opaque
// payload. The store never interprets Data.
type Envelope struct {
	Meta Meta            `json:"meta"`
	Data json.RawMessage `json:"data"`
}

// Wrap builds an envelope around a JSON-serializable payload. fetchedAt is
// stamped by the caller (the store passes its clock's now) so tests stay
// deterministic. A nil validUntil marks the payload as never fresh.
func Wrap(payload any, source string, fetchedAt time.Time, validUntil *time.Time, extra map[string]any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Envelope{
		Meta: Meta{
			Source:     source,
			FetchedAt:  fetchedAt.UTC(),
			ValidUntil: validUntil,
			Extra:      extra,
		},
		Data: data,
	}, nil
}

// Decode parses a stored file into an envelope. Two formats are recognized:
//
//   - an envelope object with a top-level "data" key, decoded as-is
//   - a legacy un-enveloped document, returned whole as Data with empty Meta
//
// Malformed JSON is an error in both branches.
func Decode(raw []byte) (Envelope, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		// Not an object. A legacy array or scalar document is still valid;
		// anything unparseable is not.
		if !json.Valid(raw) {
			return Envelope{}, fmt.Errorf("decode stored document: %w", err)
		}
		return Envelope{Data: json.RawMessage(raw)}, nil
	}

	if _, ok := probe["data"]; !ok {
		// Legacy file written before the envelope format existed.
		return Envelope{Data: json.RawMessage(raw)}, nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// Unwrap returns the payload, discarding metadata.
func (e Envelope) Unwrap() json.RawMessage {
	return e.Data
}

// MarshalJSON flattens Extra into the same object as the known metadata keys.
// Known keys win over colliding extras.
func (m Meta) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		obj[k] = v
	}
	obj["source"] = m.Source
	if !m.FetchedAt.IsZero() {
		obj["fetched_at"] = m.FetchedAt.UTC().Format(time.RFC3339)
	}
	if m.ValidUntil != nil {
		obj["valid_until"] = m.ValidUntil.UTC().Format(time.RFC3339)
	}
	return json.Marshal(obj)
}

// UnmarshalJSON splits the flat metadata object back into known keys and Extra.
func (m *Meta) UnmarshalJSON(raw []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("decode meta: %w", err)
	}

	*m = Meta{}
	for key, val := range obj {
		switch key {
		case "source":
			if err := json.Unmarshal(val, &m.Source); err != nil {
				return fmt.Errorf("decode meta source: %w", err)
			}
		case "fetched_at":
			t, err := parseTimestamp(val)
			if err != nil {
				return fmt.Errorf("decode meta fetched_at: %w", err)
			}
			m.FetchedAt = t
		case "valid_until":
			t, err := parseTimestamp(val)
			if err != nil {
				return fmt.Errorf("decode meta valid_until: %w", err)
			}
			m.ValidUntil = &t
		default:
			var v any
			if err := json.Unmarshal(val, &v); err != nil {
				return fmt.Errorf("decode meta %q: %w", key, err)
			}
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[key] = v
		}
	}
	return nil
}

// timestampLayouts lists the accepted ISO-8601 shapes. Offset-less values are
// interpreted as UTC.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05.999999999", naive: true},
	{layout: "2006-01-02", naive: true},
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	for _, l := range timestampLayouts {
		if l.naive {
			if t, err := time.ParseInLocation(l.layout, s, time.UTC); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.Parse(l.layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
