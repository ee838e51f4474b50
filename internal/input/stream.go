package input

import (
	"bufio"
	"strconv"
	"strings"
	"time"
)

// Stream delivers raw terminal bytes via a channel and decodes them into
// key presses on a Tracker.
type Stream struct {
	ch      chan byte
	tracker *Tracker
	decoder Decoder
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader, tracker *Tracker) *Stream {
	if tracker == nil {
		tracker = NewTracker(0)
	}
	s := &Stream{
		ch:      make(chan byte, 128),
		tracker: tracker,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Tracker returns the tracker the stream feeds.
func (s *Stream) Tracker() *Tracker {
	return s.tracker
}

// Read drains all available bytes (non-blocking) and samples the controls.
// Once the underlying reader fails the controls always carry Quit.
func (s *Stream) Read(now time.Time) Controls {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.decoder.Decode(s.tracker, buf, now)

	c := s.tracker.Sample(now)
	if s.closed {
		c.Quit = true
	}
	return c
}

// maxEscapeLen bounds an escape sequence kept across reads; anything
// longer is not a key we know.
const maxEscapeLen = 16

// Decoder turns terminal input into key presses. An escape sequence cut
// off at the end of a chunk is kept and finished by the next one.
type Decoder struct {
	tail []byte
}

// Decode applies a chunk of terminal input to the tracker.
// Arrow keys arrive as CSI sequences (ESC [ A..D), or as SS3 (ESC O A..D)
// in application cursor mode; shifted arrows as ESC [ 1 ; 2 A..D.
// Upper-case movement letters imply Shift, which is the only way a
// terminal reports the boost modifier.
func (d *Decoder) Decode(t *Tracker, buf []byte, now time.Time) {
	data := buf
	if len(d.tail) > 0 {
		data = append(d.tail, buf...)
		d.tail = nil
	}

	for i := 0; i < len(data); {
		if data[i] != '\x1b' {
			applyByte(t, data[i], now)
			i++
			continue
		}
		n, ok := escape(t, data[i:], now)
		if !ok {
			if len(data)-i < maxEscapeLen {
				d.tail = append([]byte(nil), data[i:]...)
			}
			return
		}
		i += n
	}
}

// Decode applies a self-contained chunk of input. An unfinished escape
// sequence at the end is dropped.
func Decode(t *Tracker, buf []byte, now time.Time) {
	var d Decoder
	d.Decode(t, buf, now)
}

// escape handles the sequence starting at seq[0] == ESC. It returns how
// many bytes were consumed, or false when seq ends before the sequence
// does.
func escape(t *Tracker, seq []byte, now time.Time) (int, bool) {
	if len(seq) < 2 {
		return 0, false
	}
	switch seq[1] {
	case 'O':
		// SS3: always one final byte.
		if len(seq) < 3 {
			return 0, false
		}
		if k, ok := arrowKey(seq[2]); ok {
			t.Press(k, now)
		}
		return 3, true
	case '[':
		// CSI: parameter and intermediate bytes, then a final byte.
		j := 2
		for j < len(seq) && seq[j] >= 0x20 && seq[j] <= 0x3f {
			j++
		}
		if j == len(seq) {
			return 0, false
		}
		final := seq[j]
		if final < 0x40 || final > 0x7e {
			return j, true
		}
		if k, ok := arrowKey(final); ok {
			t.Press(k, now)
			if shifted(string(seq[2:j])) {
				t.Press(KeyBoost, now)
			}
		}
		return j + 1, true
	}
	// ESC followed by a plain key is Alt+key; read the key as usual.
	return 1, true
}

// shifted reports whether CSI parameters "1;<mod>" include Shift.
func shifted(params string) bool {
	_, mod, ok := strings.Cut(params, ";")
	if !ok {
		return false
	}
	m, err := strconv.Atoi(mod)
	return err == nil && m > 1 && (m-1)&1 != 0
}

// arrowKey maps the final byte of a CSI arrow sequence.
func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}

// applyByte handles a single key byte.
func applyByte(t *Tracker, b byte, now time.Time) {
	switch b {
	case 'w', 'k':
		t.Press(KeyUp, now)
	case 's', 'j':
		t.Press(KeyDown, now)
	case 'a', 'h':
		t.Press(KeyLeft, now)
	case 'd', 'l':
		t.Press(KeyRight, now)
	case 'W', 'K':
		t.Press(KeyUp, now)
		t.Press(KeyBoost, now)
	case 'S', 'J':
		t.Press(KeyDown, now)
		t.Press(KeyBoost, now)
	case 'A', 'H':
		t.Press(KeyLeft, now)
		t.Press(KeyBoost, now)
	case 'D', 'L':
		t.Press(KeyRight, now)
		t.Press(KeyBoost, now)
	case ' ', '\n', '\r':
		// Start and Reset share a key; each is only valid in one phase.
		t.Fire(TriggerStart, now)
		t.Fire(TriggerReset, now)
	case 'm', 'M':
		t.Fire(TriggerToggleMusic, now)
	case 'q', 'Q', '\x03':
		t.Fire(TriggerQuit, now)
	}
}
