package apu

import "sync/atomic"

// sampleRing is a fixed-capacity single-producer/single-consumer ring of
// interleaved stereo float32 frames. The CORE (producer, driven by Tick)
// and the consumer calling PullSamples may run on different goroutines;
// no pack dependency implements lock-free SPSC queues, so this is the
// smallest stdlib construct that gives the producer a non-blocking push
// and the consumer a non-blocking drain.
type sampleRing struct {
	buf        []float32 // capacity must be a power of two, interleaved L/R
	mask       uint32
	writeIndex uint32
	readIndex  uint32
}

func newSampleRing(frames int) *sampleRing {
	n := 1
	for n < frames {
		n <<= 1
	}
	return &sampleRing{buf: make([]float32, n*2), mask: uint32(n*2 - 1)}
}

// push appends one stereo frame, overwriting the oldest frame if the
// consumer has fallen behind (audio glitches are preferable to blocking
// the emulation thread).
func (r *sampleRing) push(l, rr float32) {
	w := atomic.LoadUint32(&r.writeIndex)
	r.buf[w&r.mask] = l
	r.buf[(w+1)&r.mask] = rr
	atomic.StoreUint32(&r.writeIndex, w+2)

	read := atomic.LoadUint32(&r.readIndex)
	if w+2-read > r.mask+1 {
		atomic.StoreUint32(&r.readIndex, w+2-(r.mask+1))
	}
}

// drain copies up to len(out) interleaved samples into out and returns
// the count written; it never blocks, padding nothing, so callers must
// handle a short read (e.g. by emitting silence).
func (r *sampleRing) drain(out []float32) int {
	w := atomic.LoadUint32(&r.writeIndex)
	read := atomic.LoadUint32(&r.readIndex)
	available := w - read
	n := uint32(len(out))
	if n > available {
		n = available
	}
	for i := uint32(0); i < n; i++ {
		out[i] = r.buf[(read+i)&r.mask]
	}
	atomic.StoreUint32(&r.readIndex, read+n)
	return int(n)
}
