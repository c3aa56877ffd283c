package multisend

import "github.com/google/uuid"

// Status is the lifecycle state of one transfer row.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

var transitions = map[Status][]Status{
	StatusIdle:    {StatusPending},
	StatusPending: {StatusConfirmed, StatusFailed},
}

// CanTransition reports whether a row may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Field names an editable column of a row.
type Field int

const (
	FieldAddress Field = iota
	FieldAmount
	FieldMemo
)

// Row is one recipient of a batch.
type Row struct {
	ID      string
	Address string
	Amount  string
	Memo    string
	Status  Status
	TxHash  string
	Err     string
}

func newRow() Row {
	return Row{ID: uuid.NewString(), Status: StatusIdle}
}

// Editable reports whether the row fields may still change.
func (r Row) Editable() bool {
	return r.Status == StatusIdle
}

func (r *Row) set(f Field, v string) bool {
	if !r.Editable() {
		return false
	}
	switch f {
	case FieldAddress:
		r.Address = v
	case FieldAmount:
		r.Amount = v
	case FieldMemo:
		r.Memo = v
	default:
		return false
	}
	return true
}

func (r *Row) moveTo(next Status) bool {
	if !r.Status.CanTransition(next) {
		return false
	}
	r.Status = next
	return true
}
