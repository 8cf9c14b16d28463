package schedule

import (
	"fmt"
)

// Task asks for a pagination pass over a page. It carries no document state,
// task always works with the document current at the time it runs.
type Task struct {
	Page       int
	Kind       TaskKind
	Generation uint64
}

func (t Task) String() string {
	return fmt.Sprintf("%s:%d@%d", t.Kind, t.Page, t.Generation)
}

// Queue is FIFO of tasks.
type Queue struct {
	tasks []Task
}

func (q *Queue) Push(t Task) {
	q.tasks = append(q.tasks, t)
}

func (q *Queue) Pop() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t := q.tasks[0]
	q.tasks[0] = Task{}
	q.tasks = q.tasks[1:]
	if len(q.tasks) == 0 {
		q.tasks = nil
	}
	return t, true
}

func (q *Queue) Len() int { return len(q.tasks) }

func (q *Queue) Clear() { q.tasks = nil }
