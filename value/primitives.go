package value

// Size is the GB/MB/KB/B tuple literal form (spec.md §3). It
// normalizes to a byte count for arithmetic and comparison.
type Size struct {
	GB, MB, KB, B int64
}

// Bytes returns the normalized byte count.
func (s Size) Bytes() int64 {
	return s.B + s.KB*1024 + s.MB*1024*1024 + s.GB*1024*1024*1024
}

// Duration is the H/Min/S/MS tuple literal form (spec.md §3). It
// normalizes to whole milliseconds for arithmetic and comparison.
type Duration struct {
	H, Min, S, MS int64
}

// Millis returns the normalized millisecond count.
func (d Duration) Millis() int64 {
	return d.MS + d.S*1000 + d.Min*60*1000 + d.H*60*60*1000
}
