package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

var (
	ErrMalformed   = errors.New("wire: malformed envelope")
	ErrUnknownKind = errors.New("wire: unknown event kind")
)

// Decoder 校验并解码后端帧。topic 可被重命名，aliases 把外部名字映射回内部 Kind。
type Decoder struct {
	schema *jsonschema.Schema

	mu      sync.RWMutex
	aliases map[string]Kind
	now     func() time.Time
}

func NewDecoder() (*Decoder, error) {
	schema, err := compileEnvelopeSchema()
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}
	return &Decoder{schema: schema, aliases: map[string]Kind{}, now: time.Now}, nil
}

// SetAliases replaces the inbound topic remap. Keys are wire names, values the kind they carry.
func (d *Decoder) SetAliases(aliases map[string]Kind) {
	cp := make(map[string]Kind, len(aliases))
	for name, kind := range aliases {
		name = strings.TrimSpace(name)
		if name == "" || !kind.Valid() {
			continue
		}
		cp[name] = kind
	}
	d.mu.Lock()
	d.aliases = cp
	d.mu.Unlock()
}

func (d *Decoder) resolve(name string) (Kind, bool) {
	d.mu.RLock()
	kind, ok := d.aliases[name]
	d.mu.RUnlock()
	if ok {
		return kind, true
	}
	kind = Kind(name)
	return kind, kind.Valid()
}

// Decode validates raw against the envelope schema and decodes its payload into the typed struct
// for its kind. Returned errors wrap ErrMalformed or ErrUnknownKind.
func (d *Decoder) Decode(raw []byte) (Event, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Event{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	typ := gjson.GetBytes(raw, "type")
	if typ.Type != gjson.String {
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	kind, ok := d.resolve(strings.TrimSpace(typ.String()))
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownKind, typ.String())
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := d.schema.Validate(doc); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	payload := NewPayload(kind)
	body := bytes.TrimSpace(env.Payload)
	if len(body) > 0 && !bytes.Equal(body, []byte("null")) {
		if err := json.Unmarshal(body, payload); err != nil {
			return Event{}, fmt.Errorf("%w: %s payload: %v", ErrMalformed, kind, err)
		}
	}
	return Event{
		Kind:          kind,
		ID:            env.ID,
		CorrelationID: env.CorrelationID,
		TimestampNs:   env.TimestampNs,
		ReceivedAt:    d.now(),
		Raw:           json.RawMessage(raw),
		Payload:       payload,
	}, nil
}

// PeekType returns the raw type field without validating the frame.
func PeekType(raw []byte) string {
	return gjson.GetBytes(raw, "type").String()
}
