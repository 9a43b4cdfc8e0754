package value

import (
	"fmt"
	"hash/fnv"
)

const dictMaxLoadFactor = 0.75

type dictSlot struct {
	key  string
	val  Value
	next int // index of next slot chained onto the same bucket, -1 if none
	tomb bool
}

// Dict is an ordered-insertion string->Value map: an open-addressing
// table whose buckets each head a chaining-style linked list of
// slots, with tombstones left behind on deletion and a rehash once
// the load factor crosses dictMaxLoadFactor (spec.md §3). Iteration
// walks slots in insertion order, skipping tombstones, never visiting
// a deleted key even if its slot was reused... rehash always drops
// tombstones rather than reusing their slot index across a resize.
type Dict struct {
	BaseObject
	buckets []int // bucket -> head slot index, -1 empty
	slots   []dictSlot
	order   []int // slot indices, insertion order
	live    int
	tombs   int
}

// NewDict allocates an empty Dict tracked by collector.
func NewDict(collector *Collector) *Dict {
	d := &Dict{buckets: newBuckets(8)}
	collector.Track(d)
	return d
}

func newBuckets(n int) []int {
	b := make([]int, n)
	for i := range b {
		b[i] = -1
	}
	return b
}

func (d *Dict) Type() TypeTag { return TagDict }

func (d *Dict) DoMark(mark func(Object)) {
	for _, idx := range d.order {
		s := d.slots[idx]
		if s.tomb {
			continue
		}
		if obj, ok := s.val.(Object); ok {
			mark(obj)
		}
	}
}

func (d *Dict) bucketFor(key string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum64() % uint64(len(d.buckets)))
}

// Get returns the value bound to key, if live.
func (d *Dict) Get(key string) (Value, bool) {
	b := d.bucketFor(key)
	for i := d.buckets[b]; i != -1; i = d.slots[i].next {
		s := &d.slots[i]
		if !s.tomb && s.key == key {
			return s.val, true
		}
	}
	return nil, false
}

// Set inserts or updates key's binding, rehashing first if the load
// factor would exceed dictMaxLoadFactor.
func (d *Dict) Set(key string, v Value) {
	if float64(d.live+1) > dictMaxLoadFactor*float64(len(d.buckets)) {
		d.rehash()
	}
	b := d.bucketFor(key)
	for i := d.buckets[b]; i != -1; i = d.slots[i].next {
		s := &d.slots[i]
		if !s.tomb && s.key == key {
			s.val = v
			return
		}
	}
	idx := len(d.slots)
	d.slots = append(d.slots, dictSlot{key: key, val: v, next: d.buckets[b]})
	d.buckets[b] = idx
	d.order = append(d.order, idx)
	d.live++
}

// Delete tombstones key's slot if present, reporting whether it was
// found.
func (d *Dict) Delete(key string) bool {
	b := d.bucketFor(key)
	for i := d.buckets[b]; i != -1; i = d.slots[i].next {
		s := &d.slots[i]
		if !s.tomb && s.key == key {
			s.tomb = true
			d.live--
			d.tombs++
			return true
		}
	}
	return false
}

// Len returns the number of live entries.
func (d *Dict) Len() int { return d.live }

func (d *Dict) rehash() {
	newCap := len(d.buckets)
	for float64(d.live) > dictMaxLoadFactor*float64(newCap) {
		newCap *= 2
	}
	var old []dictSlot
	for _, idx := range d.order {
		s := d.slots[idx]
		if !s.tomb {
			old = append(old, s)
		}
	}
	d.buckets = newBuckets(newCap)
	d.slots = nil
	d.order = nil
	d.tombs = 0
	d.live = 0
	for _, s := range old {
		d.Set(s.key, s.val)
	}
}

func (d *Dict) ToBoolean() bool   { return d.live > 0 }
func (d *Dict) ToDisplay() string { return fmt.Sprintf("dict(%d)", d.live) }

func (d *Dict) GetProperty(name string) (Value, Status, error) {
	if v, ok := d.Get(name); ok {
		return v, StatusOK, nil
	}
	return nil, StatusFailed, fmt.Errorf("no such key %q", name)
}

func (d *Dict) SetProperty(name string, v Value) (Status, error) {
	d.Set(name, v)
	return StatusOK, nil
}

func (d *Dict) GetIndex(index Value) (Value, Status, error) {
	key, ok := stringKey(index)
	if !ok {
		return nil, StatusUnimplemented, nil
	}
	if v, ok := d.Get(key); ok {
		return v, StatusOK, nil
	}
	return nil, StatusFailed, fmt.Errorf("no such key %q", key)
}

func (d *Dict) SetIndex(index Value, v Value) (Status, error) {
	key, ok := stringKey(index)
	if !ok {
		return StatusUnimplemented, nil
	}
	d.Set(key, v)
	return StatusOK, nil
}

func (d *Dict) Unset(kind UnsetKind, key Value) (Status, error) {
	if kind != UnsetProperty && kind != UnsetIndex {
		return StatusUnimplemented, nil
	}
	k, ok := stringKey(key)
	if !ok {
		return StatusUnimplemented, nil
	}
	if d.Delete(k) {
		return StatusOK, nil
	}
	return StatusFailed, fmt.Errorf("no such key %q", k)
}

func stringKey(v Value) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *String:
		return s.Raw(), true
	default:
		return "", false
	}
}

type dictIterator struct {
	BaseObject
	dict *Dict
	pos  int
}

func (it *dictIterator) Type() TypeTag { return TagIterator }
func (it *dictIterator) DoMark(mark func(Object)) {
	mark(it.dict)
}
func (it *dictIterator) Next() (key, val Value, ok bool) {
	for it.pos < len(it.dict.order) {
		idx := it.dict.order[it.pos]
		it.pos++
		s := it.dict.slots[idx]
		if s.tomb {
			continue
		}
		return s.key, s.val, true
	}
	return nil, nil, false
}

func (d *Dict) NewIterator() (Iterator, error) {
	return &dictIterator{dict: d}, nil
}
