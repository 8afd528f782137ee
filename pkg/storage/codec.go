package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/helixdb/pkg/types"
)

// encoder/decoder implement spec.md §4.A's fixed, versioned binary record
// layout: 1-byte schema version, varint label tag (interned), field count,
// then (name-tag, typed-value) pairs per field. Strings are copied rather
// than sliced zero-copy from the mmap, since Go's garbage collector (unlike
// the original's arena-owned lifetimes) makes holding a slice into bolt's
// mapped memory past the transaction unsafe.
type encoder struct {
	tx  *bolt.Tx
	buf []byte
}

func newEncoder(tx *bolt.Tx) *encoder {
	return &encoder{tx: tx, buf: make([]byte, 0, 128)}
}

func (e *encoder) putByte(b byte) { e.buf = append(e.buf, b) }

func (e *encoder) putUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	e.buf = append(e.buf, tmp[:n]...)
}

func (e *encoder) putVarint(v int64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	e.buf = append(e.buf, tmp[:n]...)
}

func (e *encoder) putBytes(b []byte) {
	e.putUvarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

func (e *encoder) putString(s string) { e.putBytes([]byte(s)) }

func (e *encoder) putName(name string) error {
	id, err := internName(e.tx, name)
	if err != nil {
		return err
	}
	e.putUvarint(id)
	return nil
}

func (e *encoder) putValue(v types.Value) error {
	e.putByte(byte(v.Kind))
	switch v.Kind {
	case types.KindNull:
	case types.KindBool:
		if v.Bool {
			e.putByte(1)
		} else {
			e.putByte(0)
		}
	case types.KindI8, types.KindI16, types.KindI32, types.KindI64:
		e.putVarint(v.Int)
	case types.KindU8, types.KindU16, types.KindU32, types.KindU64:
		e.putUvarint(v.Uint)
	case types.KindU128:
		e.buf = append(e.buf, v.U128[:]...)
	case types.KindF32:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(v.F32))
		e.buf = append(e.buf, tmp[:]...)
	case types.KindF64:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v.F64))
		e.buf = append(e.buf, tmp[:]...)
	case types.KindString, types.KindDate, types.KindUUID:
		e.putString(v.Str)
	case types.KindArray:
		e.putUvarint(uint64(len(v.Arr)))
		for _, elem := range v.Arr {
			if err := e.putValue(elem); err != nil {
				return err
			}
		}
	case types.KindObject:
		if err := e.putPropertyMap(v.Obj); err != nil {
			return err
		}
	default:
		return fmt.Errorf("encode: unknown value kind %d", v.Kind)
	}
	return nil
}

func (e *encoder) putPropertyMap(m types.PropertyMap) error {
	keys := m.Keys()
	e.putUvarint(uint64(len(keys)))
	for _, k := range keys {
		if err := e.putName(k); err != nil {
			return err
		}
		v, _ := m.Get(k)
		if err := e.putValue(v); err != nil {
			return err
		}
	}
	return nil
}

// encodeNode serializes a node record: version, label tag, property map.
func encodeNode(tx *bolt.Tx, n *types.Node) ([]byte, error) {
	e := newEncoder(tx)
	e.putByte(currentSchemaVersion)
	if err := e.putName(n.Label); err != nil {
		return nil, err
	}
	e.putByte(n.Version)
	if err := e.putPropertyMap(n.Properties); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// encodeEdge serializes an edge record: version, label tag, from, to,
// unique flag, property map. Endpoints are stored as raw 16-byte ids.
func encodeEdge(tx *bolt.Tx, ed *types.Edge) ([]byte, error) {
	e := newEncoder(tx)
	e.putByte(currentSchemaVersion)
	if err := e.putName(ed.Label); err != nil {
		return nil, err
	}
	e.putByte(ed.Version)
	fromBytes, _ := ed.From.MarshalBinary()
	toBytes, _ := ed.To.MarshalBinary()
	e.buf = append(e.buf, fromBytes...)
	e.buf = append(e.buf, toBytes...)
	if ed.Unique {
		e.putByte(1)
	} else {
		e.putByte(0)
	}
	if err := e.putPropertyMap(ed.Properties); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// encodeVector serializes a vector record: version, label tag, level,
// dimension count, f64 components, property map. Distance is never
// persisted, only attached to search results.
func encodeVector(tx *bolt.Tx, vec *types.HVector) ([]byte, error) {
	e := newEncoder(tx)
	e.putByte(currentSchemaVersion)
	if err := e.putName(vec.Label); err != nil {
		return nil, err
	}
	e.putUvarint(uint64(vec.Level))
	e.putUvarint(uint64(len(vec.Data)))
	for _, d := range vec.Data {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(d))
		e.buf = append(e.buf, tmp[:]...)
	}
	if err := e.putPropertyMap(vec.Properties); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// decoder walks an encoded record for decode. Errors indicate corruption
// and are always wrapped in herrors.Transient by the caller.
type decoder struct {
	tx  *bolt.Tx
	buf []byte
	pos int
}

func newDecoder(tx *bolt.Tx, buf []byte) *decoder {
	return &decoder{tx: tx, buf: buf}
}

func (d *decoder) getByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, fmt.Errorf("decode: unexpected end of record")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) getUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("decode: invalid uvarint")
	}
	d.pos += n
	return v, nil
}

func (d *decoder) getVarint() (int64, error) {
	v, n := binary.Varint(d.buf[d.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("decode: invalid varint")
	}
	d.pos += n
	return v, nil
}

func (d *decoder) getBytes() ([]byte, error) {
	n, err := d.getUvarint()
	if err != nil {
		return nil, err
	}
	if d.pos+int(n) > len(d.buf) {
		return nil, fmt.Errorf("decode: byte slice overruns record")
	}
	out := make([]byte, n)
	copy(out, d.buf[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return out, nil
}

func (d *decoder) getString() (string, error) {
	b, err := d.getBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) getName() (string, error) {
	id, err := d.getUvarint()
	if err != nil {
		return "", err
	}
	return lookupName(d.tx, id)
}

func (d *decoder) getValue() (types.Value, error) {
	kindByte, err := d.getByte()
	if err != nil {
		return types.Value{}, err
	}
	kind := types.ValueKind(kindByte)
	switch kind {
	case types.KindNull:
		return types.Value{Kind: kind}, nil
	case types.KindBool:
		b, err := d.getByte()
		if err != nil {
			return types.Value{}, err
		}
		return types.Value{Kind: kind, Bool: b != 0}, nil
	case types.KindI8, types.KindI16, types.KindI32, types.KindI64:
		v, err := d.getVarint()
		if err != nil {
			return types.Value{}, err
		}
		return types.Value{Kind: kind, Int: v}, nil
	case types.KindU8, types.KindU16, types.KindU32, types.KindU64:
		v, err := d.getUvarint()
		if err != nil {
			return types.Value{}, err
		}
		return types.Value{Kind: kind, Uint: v}, nil
	case types.KindU128:
		if d.pos+16 > len(d.buf) {
			return types.Value{}, fmt.Errorf("decode: u128 overruns record")
		}
		var out types.Value
		out.Kind = kind
		copy(out.U128[:], d.buf[d.pos:d.pos+16])
		d.pos += 16
		return out, nil
	case types.KindF32:
		if d.pos+4 > len(d.buf) {
			return types.Value{}, fmt.Errorf("decode: f32 overruns record")
		}
		bits := binary.LittleEndian.Uint32(d.buf[d.pos:])
		d.pos += 4
		return types.Value{Kind: kind, F32: math.Float32frombits(bits)}, nil
	case types.KindF64:
		if d.pos+8 > len(d.buf) {
			return types.Value{}, fmt.Errorf("decode: f64 overruns record")
		}
		bits := binary.LittleEndian.Uint64(d.buf[d.pos:])
		d.pos += 8
		return types.Value{Kind: kind, F64: math.Float64frombits(bits)}, nil
	case types.KindString, types.KindDate, types.KindUUID:
		s, err := d.getString()
		if err != nil {
			return types.Value{}, err
		}
		return types.Value{Kind: kind, Str: s}, nil
	case types.KindArray:
		n, err := d.getUvarint()
		if err != nil {
			return types.Value{}, err
		}
		arr := make([]types.Value, n)
		for i := range arr {
			v, err := d.getValue()
			if err != nil {
				return types.Value{}, err
			}
			arr[i] = v
		}
		return types.Value{Kind: kind, Arr: arr}, nil
	case types.KindObject:
		m, err := d.getPropertyMap()
		if err != nil {
			return types.Value{}, err
		}
		return types.Value{Kind: kind, Obj: m}, nil
	default:
		return types.Value{}, fmt.Errorf("decode: unknown value kind %d", kindByte)
	}
}

func (d *decoder) getPropertyMap() (types.PropertyMap, error) {
	n, err := d.getUvarint()
	if err != nil {
		return types.PropertyMap{}, err
	}
	m := types.NewPropertyMap()
	for i := uint64(0); i < n; i++ {
		name, err := d.getName()
		if err != nil {
			return types.PropertyMap{}, err
		}
		v, err := d.getValue()
		if err != nil {
			return types.PropertyMap{}, err
		}
		m.Set(name, v)
	}
	return m, nil
}

func decodeNode(tx *bolt.Tx, id types.ID, buf []byte) (*types.Node, error) {
	d := newDecoder(tx, buf)
	if _, err := d.getByte(); err != nil { // schema version, unused beyond presence for now
		return nil, err
	}
	label, err := d.getName()
	if err != nil {
		return nil, err
	}
	version, err := d.getByte()
	if err != nil {
		return nil, err
	}
	props, err := d.getPropertyMap()
	if err != nil {
		return nil, err
	}
	return &types.Node{ID: id, Label: label, Version: version, Properties: props}, nil
}

func decodeEdge(tx *bolt.Tx, id types.ID, buf []byte) (*types.Edge, error) {
	d := newDecoder(tx, buf)
	if _, err := d.getByte(); err != nil {
		return nil, err
	}
	label, err := d.getName()
	if err != nil {
		return nil, err
	}
	version, err := d.getByte()
	if err != nil {
		return nil, err
	}
	if d.pos+32 > len(d.buf) {
		return nil, fmt.Errorf("decode: edge endpoints overrun record")
	}
	var from, to types.ID
	if err := from.UnmarshalBinary(d.buf[d.pos : d.pos+16]); err != nil {
		return nil, err
	}
	d.pos += 16
	if err := to.UnmarshalBinary(d.buf[d.pos : d.pos+16]); err != nil {
		return nil, err
	}
	d.pos += 16
	uniqueByte, err := d.getByte()
	if err != nil {
		return nil, err
	}
	props, err := d.getPropertyMap()
	if err != nil {
		return nil, err
	}
	return &types.Edge{
		ID: id, Label: label, Version: version,
		From: from, To: to, Unique: uniqueByte != 0, Properties: props,
	}, nil
}

func decodeVector(tx *bolt.Tx, id types.ID, buf []byte) (*types.HVector, error) {
	d := newDecoder(tx, buf)
	if _, err := d.getByte(); err != nil {
		return nil, err
	}
	label, err := d.getName()
	if err != nil {
		return nil, err
	}
	level, err := d.getUvarint()
	if err != nil {
		return nil, err
	}
	n, err := d.getUvarint()
	if err != nil {
		return nil, err
	}
	data := make([]float64, n)
	for i := range data {
		if d.pos+8 > len(d.buf) {
			return nil, fmt.Errorf("decode: vector component overruns record")
		}
		bits := binary.LittleEndian.Uint64(d.buf[d.pos:])
		data[i] = math.Float64frombits(bits)
		d.pos += 8
	}
	props, err := d.getPropertyMap()
	if err != nil {
		return nil, err
	}
	return &types.HVector{ID: id, Label: label, Level: int(level), Data: data, Properties: props}, nil
}
