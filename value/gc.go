package value

import "github.com/dolthub/swiss"

// color is an object's tri-color mark-and-sweep state.
type color uint8

const (
	white color = iota // unreached this cycle, collected at sweep
	gray                // reached, not yet scanned
	black               // reached and scanned, or permanently alive
)

// GCHeader is embedded in every heap Object. It carries the tri-color
// state and the intrusive "next" link the owning Collector threads
// live objects onto, per spec.md §4.8 and §3's Object invariant.
type GCHeader struct {
	mark color
	next Object
}

func (h *GCHeader) gcHeader() *GCHeader { return h }

// Collector owns a linked list of heap objects and a root set. The
// Context collector is mutable (stop-the-world mark-and-sweep); the
// Engine collector is append-only and never sweeps.
type Collector struct {
	head       Object
	count      int
	triggerAt  int
	minGap     int
	lastCycle  int
	targetRate float64 // target survivor ratio, drives triggerAt adjustment
	immutable  bool

	roots    *swiss.Map[uintptr, int] // root pointer identity -> refcount
	rootVals map[uintptr]Object

	// AllocHook holds a host-installed allocation hook. Track does not
	// call it, so no allocation is ever checked against it or failed
	// by it.
	AllocHook func(size int) bool
}

// NewContextCollector builds the mutable per-Context collector.
// targetRate and minGap tune when the next cycle triggers: a cycle
// that reclaimed fewer objects than targetRate raises the next
// trigger's allocation threshold, never sooner than minGap
// allocations out.
func NewContextCollector(targetRate float64, minGap int) *Collector {
	return &Collector{
		triggerAt:  minGap,
		minGap:     minGap,
		targetRate: targetRate,
		roots:      swiss.NewMap[uintptr, int](uint32(8)),
		rootVals:   make(map[uintptr]Object),
	}
}

// NewEngineCollector builds the append-only collector used for engine-
// level constants and a CompiledCode's permanent literal pool. Objects
// allocated here are pre-colored black and never swept.
func NewEngineCollector() *Collector {
	return &Collector{immutable: true}
}

// Track registers obj as live, threading it onto the collector's
// intrusive list. Engine-collector objects are pre-colored black so a
// later Context mark phase never mistakes them for garbage.
func (c *Collector) Track(obj Object) {
	h := obj.gcHeader()
	h.next = c.head
	c.head = obj
	c.count++
	if c.immutable {
		h.mark = black
	}
}

// AddRoot registers v as a GC root. Repeated registration of the same
// identity increments a reference count so two Handles over the same
// object don't let either's release prematurely unroot it.
func (c *Collector) AddRoot(id uintptr, obj Object) {
	n, _ := c.roots.Get(id)
	c.roots.Put(id, n+1)
	c.rootVals[id] = obj
}

// RemoveRoot decrements id's reference count, removing the root entry
// once it reaches zero.
func (c *Collector) RemoveRoot(id uintptr) {
	n, ok := c.roots.Get(id)
	if !ok {
		return
	}
	if n <= 1 {
		c.roots.Delete(id)
		delete(c.rootVals, id)
		return
	}
	c.roots.Put(id, n-1)
}

// ShouldCollect reports whether enough allocations have accumulated
// since the last cycle to trigger a new one.
func (c *Collector) ShouldCollect() bool {
	return !c.immutable && c.count >= c.triggerAt
}

// Collect runs one stop-the-world mark-and-sweep cycle. extraRoots
// covers transient roots the collector itself doesn't track: the VM's
// value stack, call-frame caller values, and the v0/v1 scratch
// registers (spec.md §4.9).
func (c *Collector) Collect(extraRoots []Object) {
	if c.immutable {
		return
	}
	for _, obj := range c.rootVals {
		markObject(obj)
	}
	for _, obj := range extraRoots {
		markObject(obj)
	}

	survivors := 0
	var newHead Object
	for obj := c.head; obj != nil; {
		h := obj.gcHeader()
		next := h.next
		if h.mark == white {
			// finalization happens via the type tag at destruction;
			// Go's own GC reclaims the memory once unreferenced.
		} else {
			h.mark = white
			h.next = newHead
			newHead = obj
			survivors++
		}
		obj = next
	}
	c.head = newHead

	reclaimed := c.count - survivors
	c.count = survivors
	c.lastCycle = reclaimed
	c.adjustTrigger(reclaimed, survivors)
}

func (c *Collector) adjustTrigger(reclaimed, survivors int) {
	total := reclaimed + survivors
	if total == 0 {
		c.triggerAt = c.count + c.minGap
		return
	}
	rate := float64(reclaimed) / float64(total)
	next := c.minGap
	if rate < c.targetRate {
		next = int(float64(c.minGap) * (1 + (c.targetRate - rate)))
	}
	if next < c.minGap {
		next = c.minGap
	}
	c.triggerAt = c.count + next
}

func markObject(obj Object) {
	if obj == nil {
		return
	}
	h := obj.gcHeader()
	if h.mark != white {
		return
	}
	h.mark = gray
	obj.DoMark(markObject)
	h.mark = black
}

// Handle is an RAII-style root binding: construction registers the
// held value as a root with the owning collector; Release removes it.
// Host code composing heap values across more than one allocation
// (building a key and a value before inserting into a Dict) must hold
// a Handle on each, since any intervening allocation can trigger a
// cycle.
type Handle struct {
	collector *Collector
	id        uintptr
	obj       Object
}

// NewHandle roots obj with collector, keyed by id (typically the
// object's own pointer identity via reflect or a caller-assigned
// sequence number).
func NewHandle(collector *Collector, id uintptr, obj Object) *Handle {
	collector.AddRoot(id, obj)
	return &Handle{collector: collector, id: id, obj: obj}
}

// Value returns the held object.
func (h *Handle) Value() Object { return h.obj }

// Release unroots the held object.
func (h *Handle) Release() {
	if h.collector == nil {
		return
	}
	h.collector.RemoveRoot(h.id)
	h.collector = nil
}
