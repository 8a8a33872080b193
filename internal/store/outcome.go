package store

// Outcome 描述一次 apply 的结果，供引擎计数与日志使用。
type Outcome int

const (
	Applied Outcome = iota
	// Ignored: the event was valid but a gate (closed position, missing line) suppressed it.
	Ignored
	// Premature: an incremental event arrived before its snapshot.
	Premature
	// Stale: the event is older than what the store already holds.
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Ignored:
		return "ignored"
	case Premature:
		return "premature"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Merge keeps the most significant outcome of a batch: any applied entry makes the batch applied.
func (o Outcome) Merge(other Outcome) Outcome {
	if o == Applied || other == Applied {
		return Applied
	}
	if other > o {
		return other
	}
	return o
}
