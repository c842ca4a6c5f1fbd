package zipkin

// Flags is the bitfield carried alongside a SpanContext.
type Flags uint64

const (
	// FlagDebug forces sampling regardless of the sampler's decision.
	FlagDebug Flags = 1 << iota
	// FlagSamplingSet indicates the sampled bit is meaningful (set or
	// explicitly cleared), as opposed to "no decision made yet".
	FlagSamplingSet
	// FlagSampled is the sampled decision bit itself.
	FlagSampled
	// FlagIsRoot marks a span as the root of its trace.
	FlagIsRoot
)

// Sampled reports the tribool sampled state on receive: true if FlagSampled
// is set; false if FlagSamplingSet is set but FlagSampled is not; and ok=false
// ("unknown", the sampler may still run) if neither is set.
func (f Flags) Sampled() (sampled bool, ok bool) {
	if f&FlagSampled != 0 {
		return true, true
	}
	if f&FlagSamplingSet != 0 {
		return false, true
	}
	return false, false
}

// WithSampled returns f with the sampled decision set to sampled and
// FlagSamplingSet turned on.
func (f Flags) WithSampled(sampled bool) Flags {
	f |= FlagSamplingSet
	if sampled {
		f |= FlagSampled
	} else {
		f &^= FlagSampled
	}
	return f
}

// Debug reports whether the debug bit is set.
func (f Flags) Debug() bool { return f&FlagDebug != 0 }

// IsRoot reports whether the is-root bit is set.
func (f Flags) IsRoot() bool { return f&FlagIsRoot != 0 }
