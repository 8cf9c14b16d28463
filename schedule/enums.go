package schedule

// Status of a page in the current pagination cycle.
// ENUM(pending, converged)
type Status int

// What triggered task.
// ENUM(user, reflow)
type TaskKind int
