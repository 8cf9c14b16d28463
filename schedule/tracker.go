package schedule

// Tracker keeps per page status of the current pagination cycle. It is
// informational only, pages reach their fixed points without it.
type Tracker struct {
	status map[int]Status
	count  int
	active bool

	cycles     int
	passes     int
	transforms int
}

func NewTracker() *Tracker {
	return &Tracker{status: make(map[int]Status)}
}

// Begin starts new cycle. All pages are assumed converged until they are
// marked pending, pages still pending from the previous cycle stay so.
func (t *Tracker) Begin(pageCount int) {
	for num, st := range t.status {
		if st != StatusPending || num > pageCount {
			delete(t.status, num)
		}
	}
	t.count = pageCount
	for num := 1; num <= pageCount; num++ {
		if _, ok := t.status[num]; !ok {
			t.status[num] = StatusConverged
		}
	}
	t.active = true
	t.cycles++
}

// Reset forgets all pages, it is used when document is replaced.
func (t *Tracker) Reset() {
	clear(t.status)
	t.count = 0
	t.active = false
}

// End closes current cycle.
func (t *Tracker) End() { t.active = false }

func (t *Tracker) Active() bool { return t.active }

func (t *Tracker) Pending(num int) {
	if num > 0 {
		t.status[num] = StatusPending
	}
}

func (t *Tracker) Settled(num int) {
	if _, ok := t.status[num]; ok {
		t.status[num] = StatusConverged
	}
}

// Resize follows page count changes during cycle: removed pages are
// forgotten, added pages start pending.
func (t *Tracker) Resize(pageCount int) {
	for num := pageCount + 1; num <= t.count; num++ {
		delete(t.status, num)
	}
	for num := t.count + 1; num <= pageCount; num++ {
		t.status[num] = StatusPending
	}
	t.count = pageCount
}

// Unsettled returns pending pages in order.
func (t *Tracker) Unsettled() []int {
	var out []int
	for num := 1; num <= t.count; num++ {
		if t.status[num] == StatusPending {
			out = append(out, num)
		}
	}
	return out
}

func (t *Tracker) Status(num int) (Status, bool) {
	s, ok := t.status[num]
	return s, ok
}

// Converged reports whether every page of the cycle has settled.
func (t *Tracker) Converged() bool {
	for num := 1; num <= t.count; num++ {
		if t.status[num] != StatusConverged {
			return false
		}
	}
	return true
}

func (t *Tracker) countPass()      { t.passes++ }
func (t *Tracker) countTransform() { t.transforms++ }

// Stats are diagnostic counters.
type Stats struct {
	Cycles     int
	Passes     int
	Transforms int
	Pages      int
	Converged  bool
}

func (t *Tracker) Stats() Stats {
	return Stats{
		Cycles:     t.cycles,
		Passes:     t.passes,
		Transforms: t.transforms,
		Pages:      t.count,
		Converged:  t.Converged(),
	}
}
