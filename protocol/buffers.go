package protocol

// InputBuffer is a window over received bytes
type InputBuffer interface {
	// Data returns the available data slice
	Data() []byte

	// Available returns the number of bytes available
	Available() int

	// Pop removes n bytes from the front of the buffer
	Pop(n int)
}

// OutputBuffer collects outgoing bytes and allows patching a length byte
// after the payload is known
type OutputBuffer interface {
	// Output writes data to the buffer
	Output(data []byte)

	// CurPosition returns the current write position
	CurPosition() int

	// Update modifies a byte at a specific position
	Update(pos int, val byte)

	// DataSince returns data from a specific position to current
	DataSince(pos int) []byte
}

// SliceInputBuffer implements InputBuffer using a byte slice
type SliceInputBuffer struct {
	data []byte
}

// NewSliceInputBuffer creates a new SliceInputBuffer
func NewSliceInputBuffer(data []byte) *SliceInputBuffer {
	return &SliceInputBuffer{data: data}
}

func (s *SliceInputBuffer) Data() []byte   { return s.data }
func (s *SliceInputBuffer) Available() int { return len(s.data) }

func (s *SliceInputBuffer) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// ScratchOutput is a fixed-size OutputBuffer that never allocates, so it
// can be filled from the target main loop
type ScratchOutput struct {
	buf [ScratchSize]byte
	pos int
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

// Output appends data, silently truncating once the buffer is full
func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int { return s.pos }

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Free returns how many more bytes fit
func (s *ScratchOutput) Free() int {
	return len(s.buf) - s.pos
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// FifoBuffer is a circular byte buffer between a serial reader and the
// block decoder
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
}

// NewFifoBuffer creates a FifoBuffer holding up to capacity-1 bytes
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns the count written
func (f *FifoBuffer) Write(data []byte) int {
	n := 0
	for _, b := range data {
		next := (f.write + 1) % len(f.buf)
		if next == f.read {
			break
		}
		f.buf[f.write] = b
		f.write = next
		n++
	}
	return n
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return len(f.buf) - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return len(f.buf) - f.Available() - 1
}

// Data returns the buffered bytes as one slice, copying when they wrap
func (f *FifoBuffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	out := make([]byte, 0, f.Available())
	out = append(out, f.buf[f.read:]...)
	return append(out, f.buf[:f.write]...)
}

// Pop removes n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	if avail := f.Available(); n > avail {
		n = avail
	}
	f.read = (f.read + n) % len(f.buf)
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
