package cache

// Status is the lifecycle state of a single key in a Cache
type Status int

const (
	StatusNotFound Status = iota
	StatusPending
	StatusResolved
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not-found"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

// Settled reports whether the status is terminal (resolved or rejected)
func (s Status) Settled() bool {
	return s == StatusResolved || s == StatusRejected
}
