package worker

// State is a thread life cycle state.
type State int32

const (
	Created State = iota
	Running
	ReportWritten
	Finished
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case ReportWritten:
		return "reportWritten"
	case Finished:
		return "finished"
	}
	return "unknown"
}
