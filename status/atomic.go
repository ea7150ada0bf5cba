package status

import (
	"math"
	"sync/atomic"
	"unicode/utf8"
)

// Float is an atomic float64. Zero value reads 0
type Float struct {
	bits atomic.Uint64
}

// Store sets the value atomically
func (f *Float) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Load reads the value atomically
func (f *Float) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// MaxStringLen bounds stored strings so overlay rows stay narrow
const MaxStringLen = 24

// String is an atomic string truncated to MaxStringLen. Zero value reads ""
type String struct {
	ptr atomic.Pointer[string]
}

// Store sets the value atomically, cutting it at the last rune boundary within MaxStringLen bytes
func (s *String) Store(v string) {
	if len(v) > MaxStringLen {
		cut := MaxStringLen
		for cut > 0 && !utf8.RuneStart(v[cut]) {
			cut--
		}
		v = v[:cut]
	}
	s.ptr.Store(&v)
}

// Load reads the value atomically
func (s *String) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
