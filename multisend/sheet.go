package multisend

import (
	"strings"

	"payme-tui/helpers"

	"github.com/shopspring/decimal"
)

// Sheet is the editable recipient list. It always holds at least one row.
// A Sheet is not safe for concurrent use; the TUI only touches it from Update.
type Sheet struct {
	rows []Row
}

// NewSheet returns a sheet with one empty row.
func NewSheet() *Sheet {
	return &Sheet{rows: []Row{newRow()}}
}

// Rows returns a copy of the rows in order.
func (s *Sheet) Rows() []Row {
	return append([]Row(nil), s.rows...)
}

// Len returns the number of rows.
func (s *Sheet) Len() int {
	return len(s.rows)
}

// Row returns the row with id.
func (s *Sheet) Row(id string) (Row, bool) {
	if i := s.index(id); i >= 0 {
		return s.rows[i], true
	}
	return Row{}, false
}

func (s *Sheet) index(id string) int {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends an empty idle row and returns it.
func (s *Sheet) Add() Row {
	r := newRow()
	s.rows = append(s.rows, r)
	return r
}

// Remove deletes an idle row. Removing the last row is a no-op.
func (s *Sheet) Remove(id string) bool {
	if len(s.rows) <= 1 {
		return false
	}
	i := s.index(id)
	if i < 0 || !s.rows[i].Editable() {
		return false
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return true
}

// Edit sets one field of an idle row.
func (s *Sheet) Edit(id string, f Field, value string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	return s.rows[i].set(f, value)
}

// Fill sets the address of the first empty idle row, adding one if
// none is free. Used for contact quick-select.
func (s *Sheet) Fill(address string) Row {
	for i := range s.rows {
		r := &s.rows[i]
		if r.Editable() && strings.TrimSpace(r.Address) == "" {
			r.Address = address
			return *r
		}
	}
	r := s.Add()
	s.Edit(r.ID, FieldAddress, address)
	r, _ = s.Row(r.ID)
	return r
}

// Total sums the amounts of all rows, ignoring unparsable ones.
func (s *Sheet) Total() decimal.Decimal {
	amounts := make([]string, 0, len(s.rows))
	for _, r := range s.rows {
		amounts = append(amounts, r.Amount)
	}
	return helpers.SumAmounts(amounts...)
}

// Busy reports whether any row is pending.
func (s *Sheet) Busy() bool {
	for _, r := range s.rows {
		if r.Status == StatusPending {
			return true
		}
	}
	return false
}

// Plan selects the rows to send: non-empty address and a positive amount.
// Selected rows must all carry a valid address, otherwise nothing is sent.
func (s *Sheet) Plan() (Plan, error) {
	var plan Plan
	invalid := 0
	for _, r := range s.rows {
		if r.Status != StatusIdle {
			continue
		}
		addr := strings.TrimSpace(r.Address)
		if addr == "" || !helpers.IsPositiveAmount(r.Amount) {
			continue
		}
		if !helpers.IsValidEthAddress(addr) {
			invalid++
			continue
		}
		plan = append(plan, Transfer{
			RowID:   r.ID,
			Address: addr,
			Amount:  strings.TrimSpace(r.Amount),
			Memo:    r.Memo,
		})
	}
	if invalid > 0 {
		return nil, &InvalidRowsError{Count: invalid}
	}
	if len(plan) == 0 {
		return nil, ErrNothingToSend
	}
	return plan, nil
}

// MarkPending moves every planned row to pending in one step.
func (s *Sheet) MarkPending(plan Plan) {
	for _, t := range plan {
		if i := s.index(t.RowID); i >= 0 {
			s.rows[i].moveTo(StatusPending)
		}
	}
}

// Settle applies all outcomes in one step. Rows not pending are left alone.
func (s *Sheet) Settle(outcomes []Outcome) {
	for _, o := range outcomes {
		i := s.index(o.RowID)
		if i < 0 {
			continue
		}
		r := &s.rows[i]
		if o.Err != nil {
			if r.moveTo(StatusFailed) {
				r.Err = o.Err.Error()
			}
			continue
		}
		if r.moveTo(StatusConfirmed) {
			r.TxHash = o.TxHash
		}
	}
}

// Reset replaces the sheet with a single empty row, keeping nothing of the
// previous batch.
func (s *Sheet) Reset() {
	s.rows = []Row{newRow()}
}
