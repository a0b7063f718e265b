package store

// State is the write state machine, followed by every write on its own:
//
//	idle -> submitting -> committed -> idle
//	idle -> submitting -> failed -> idle (write policy applied)
//
// A failed write is not retried.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateCommitted  State = "committed"
	StateFailed     State = "failed"
)

// write is one Append or Delete in flight.
type write struct {
	epoch uint64
	state State
}

// writeCounts tracks how many writes sit in each state. Writes begun
// before a reset belong to an older epoch and no longer count.
type writeCounts struct {
	epoch uint64
	n     map[State]int
}

// current reports failed while any write is failing, then submitting,
// then committed, and idle only when no write is in flight.
func (c *writeCounts) current() State {
	for _, st := range []State{StateFailed, StateSubmitting, StateCommitted} {
		if c.n[st] > 0 {
			return st
		}
	}
	return StateIdle
}

func (c *writeCounts) move(w *write, to State) {
	if w.epoch == c.epoch {
		if c.n == nil {
			c.n = map[State]int{}
		}
		if w.state != StateIdle {
			c.n[w.state]--
		}
		if to != StateIdle {
			c.n[to]++
		}
	}
	w.state = to
}

func (c *writeCounts) reset() {
	c.epoch++
	c.n = nil
}

func (s *MoodStore) beginWrite() *write {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &write{epoch: s.writes.epoch, state: StateIdle}
	s.writes.move(w, StateSubmitting)
	return w
}

func (s *MoodStore) moveWrite(w *write, to State) {
	s.mu.Lock()
	s.writes.move(w, to)
	s.mu.Unlock()
}

func (s *MoodStore) endWrite(w *write) {
	s.moveWrite(w, StateIdle)
}
