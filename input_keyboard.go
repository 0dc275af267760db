// input_keyboard.go - Bounded keyboard queue shared by devices and PutChar

package main

// KB_N is the queue capacity, enough for a longish paste.
const KB_N = 50

// Characters for keys with no ASCII meaning
const (
	CHAR_NONE  = 0
	CHAR_BS    = '\b'
	CHAR_TAB   = '\t'
	CHAR_NL    = '\n'
	CHAR_CR    = '\r'
	CHAR_ESC   = 0x1B
	CHAR_SPACE = ' '
	CHAR_DEL   = 0x7F
	CHAR_LEFT  = 0x81
	CHAR_RIGHT = 0x82
	CHAR_UP    = 0x83
	CHAR_DOWN  = 0x84
)

// KeyEvent is one queued key with the modifier state at the time.
type KeyEvent struct {
	Char    byte
	Control bool
	Shift   bool
}

// keyQueue is a fixed ring. count disambiguates full from empty. When full,
// new events are rejected and the queued ones are kept.
type keyQueue struct {
	buf      [KB_N]KeyEvent
	head     int
	count    int
	rejected uint64
}

func (q *keyQueue) push(ev KeyEvent) bool {
	if q.count == len(q.buf) {
		q.rejected++
		return false
	}
	q.buf[(q.head+q.count)%len(q.buf)] = ev
	q.count++
	return true
}

func (q *keyQueue) pop() (KeyEvent, bool) {
	if q.count == 0 {
		return KeyEvent{}, false
	}
	ev := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return ev, true
}

// PushKey queues ev. It returns false when the queue is full.
func (d *RA8875) PushKey(ev KeyEvent) bool {
	d.kbMu.Lock()
	ok := d.keys.push(ev)
	d.kbMu.Unlock()
	if !ok {
		d.log.Debug("key queue full, key dropped", "char", ev.Char)
	}
	return ok
}

// PutChar injects a character as if typed.
func (d *RA8875) PutChar(c byte) bool {
	return d.PushKey(KeyEvent{Char: c})
}

// GetChar never blocks; ok is false when nothing is queued.
func (d *RA8875) GetChar() (ev KeyEvent, ok bool) {
	d.kbMu.Lock()
	defer d.kbMu.Unlock()
	return d.keys.pop()
}

func (d *RA8875) KeysPending() int {
	d.kbMu.Lock()
	defer d.kbMu.Unlock()
	return d.keys.count
}

// KeysRejected counts keys dropped because the queue was full.
func (d *RA8875) KeysRejected() uint64 {
	d.kbMu.Lock()
	defer d.kbMu.Unlock()
	return d.keys.rejected
}

// pasteText queues s until the queue rejects. It returns how many bytes
// were queued.
func pasteText(sink InputSink, s []byte) int {
	for i, c := range s {
		if !sink.PushKey(KeyEvent{Char: c}) {
			return i
		}
	}
	return len(s)
}

// normalizePasteText turns CRLF and lone CR into LF.
func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}
