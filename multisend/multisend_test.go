package multisend

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
	carol = "0x3333333333333333333333333333333333333333"
)

var token = common.HexToAddress("0x20c0000000000000000000000000000000000000")

// fakeChain confirms every transfer unless the recipient is listed in revert
// or reject.
type fakeChain struct {
	mu        sync.Mutex
	signer    bool
	switchErr error
	decErr    error
	decimals  uint8
	revert    map[common.Address]bool
	reject    map[common.Address]bool

	calls     int
	transfers map[common.Hash]common.Address
	amounts   map[common.Address]*big.Int
	nonce     uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		signer:    true,
		decimals:  6,
		revert:    map[common.Address]bool{},
		reject:    map[common.Address]bool{},
		transfers: map[common.Hash]common.Address{},
		amounts:   map[common.Address]*big.Int{},
	}
}

func (f *fakeChain) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeChain) CanSign() bool { return f.signer }

func (f *fakeChain) SwitchChain(context.Context, int64) error {
	f.count()
	return f.switchErr
}

func (f *fakeChain) TokenDecimals(context.Context, common.Address) (uint8, error) {
	f.count()
	return f.decimals, f.decErr
}

func (f *fakeChain) Transfer(_ context.Context, _, to common.Address, amount *big.Int) (common.Hash, error) {
	f.count()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject[to] {
		return common.Hash{}, errors.New("user rejected the request")
	}
	f.nonce++
	h := common.BigToHash(new(big.Int).SetUint64(f.nonce))
	f.transfers[h] = to
	f.amounts[to] = amount
	return h, nil
}

func (f *fakeChain) WaitMined(_ context.Context, h common.Hash) (*types.Receipt, error) {
	f.count()
	f.mu.Lock()
	defer f.mu.Unlock()
	status := types.ReceiptStatusSuccessful
	if f.revert[f.transfers[h]] {
		status = types.ReceiptStatusFailed
	}
	return &types.Receipt{Status: status, TxHash: h}, nil
}

func fill(s *Sheet, addr, amount string) Row {
	r := s.Add()
	s.Edit(r.ID, FieldAddress, addr)
	s.Edit(r.ID, FieldAmount, amount)
	r, _ = s.Row(r.ID)
	return r
}

// sheetWith returns a sheet whose rows are exactly the given (address, amount) pairs.
func sheetWith(pairs ...[2]string) *Sheet {
	s := NewSheet()
	first := s.Rows()[0].ID
	for _, p := range pairs {
		fill(s, p[0], p[1])
	}
	s.Remove(first)
	return s
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusIdle, StatusPending, true},
		{StatusIdle, StatusConfirmed, false},
		{StatusIdle, StatusFailed, false},
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusIdle, false},
		{StatusConfirmed, StatusFailed, false},
		{StatusConfirmed, StatusIdle, false},
		{StatusFailed, StatusIdle, false},
		{StatusFailed, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to))
		})
	}
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestRemoveLastRowIsNoop(t *testing.T) {
	s := NewSheet()
	only := s.Rows()[0]

	assert.False(t, s.Remove(only.ID))
	assert.Equal(t, 1, s.Len())

	r := s.Add()
	assert.True(t, s.Remove(only.ID))
	assert.False(t, s.Remove(r.ID))
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Remove("missing"))
}

func TestEditOnlyWhileIdle(t *testing.T) {
	s := sheetWith([2]string{alice, "1"})
	r := s.Rows()[0]

	plan, err := s.Plan()
	require.NoError(t, err)
	s.MarkPending(plan)

	assert.False(t, s.Edit(r.ID, FieldAddress, bob))
	assert.False(t, s.Edit(r.ID, FieldAmount, "99"))
	assert.False(t, s.Edit(r.ID, FieldMemo, "changed"))

	got, _ := s.Row(r.ID)
	assert.Equal(t, alice, got.Address)
	assert.Equal(t, "1", got.Amount)
	assert.Empty(t, got.Memo)
	assert.True(t, s.Busy())

	// pending rows cannot be removed either
	s.Add()
	assert.False(t, s.Remove(r.ID))
}

func TestPlanFiltersIncompleteRows(t *testing.T) {
	s := sheetWith(
		[2]string{alice, "1.5"},
		[2]string{"", "2"},
		[2]string{bob, ""},
		[2]string{carol, "0"},
		[2]string{carol, "-3"},
	)
	plan, err := s.Plan()
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, alice, plan[0].Address)

	_, err = NewSheet().Plan()
	assert.ErrorIs(t, err, ErrNothingToSend)
}

func TestMalformedAddressAbortsWithoutCalls(t *testing.T) {
	chain := newFakeChain()
	s := sheetWith(
		[2]string{alice, "1"},
		[2]string{"0x123", "2"},
	)
	before := s.Rows()

	_, err := s.SendAll(context.Background(), chain, token, 42431, nil)

	var invalid *InvalidRowsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Count)
	assert.Equal(t, "1 recipient(s) have invalid addresses", err.Error())
	assert.Equal(t, before, s.Rows())
	assert.Zero(t, chain.calls)
}

func TestNotConnectedRefusesBeforeValidation(t *testing.T) {
	s := sheetWith([2]string{"garbage", "1"})

	_, err := s.SendAll(context.Background(), nil, token, 42431, nil)
	assert.ErrorIs(t, err, ErrNotConnected)

	chain := newFakeChain()
	chain.signer = false
	_, err = s.SendAll(context.Background(), chain, token, 42431, nil)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Zero(t, chain.calls)
}

func TestDecimalsFailureLeavesRowsIdle(t *testing.T) {
	chain := newFakeChain()
	chain.decErr = errors.New("execution reverted")
	s := sheetWith([2]string{alice, "1"}, [2]string{bob, "2"})

	_, err := s.SendAll(context.Background(), chain, token, 42431, func() {
		t.Fatal("rows must not turn pending")
	})
	assert.ErrorIs(t, err, ErrDecimals)
	for _, r := range s.Rows() {
		assert.Equal(t, StatusIdle, r.Status)
	}
	assert.Empty(t, chain.transfers)
}

func TestSwitchFailureIsTolerated(t *testing.T) {
	chain := newFakeChain()
	chain.switchErr = errors.New("unsupported chain")

	prep, err := Prepare(context.Background(), chain, token, 42431)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), prep.Decimals)
	assert.EqualError(t, prep.SwitchErr, "unsupported chain")
}

func TestConfirmOneRevertOther(t *testing.T) {
	chain := newFakeChain()
	chain.revert[common.HexToAddress(bob)] = true
	s := sheetWith([2]string{alice, "12.50"}, [2]string{bob, "3"})

	var pendingSeen []Status
	sum, err := s.SendAll(context.Background(), chain, token, 42431, func() {
		for _, r := range s.Rows() {
			pendingSeen = append(pendingSeen, r.Status)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, []Status{StatusPending, StatusPending}, pendingSeen)
	assert.Equal(t, Summary{Confirmed: 1, Failed: 1}, sum)
	assert.Equal(t, "1 sent, 1 failed", sum.String())

	rows := s.Rows()
	assert.Equal(t, StatusConfirmed, rows[0].Status)
	assert.NotEmpty(t, rows[0].TxHash)
	assert.Empty(t, rows[0].Err)

	assert.Equal(t, StatusFailed, rows[1].Status)
	assert.Equal(t, "reverted", rows[1].Err)

	assert.Equal(t, "12500000", chain.amounts[common.HexToAddress(alice)].String())
}

func TestRejectedTransferFailsOnlyItsRow(t *testing.T) {
	chain := newFakeChain()
	chain.reject[common.HexToAddress(alice)] = true
	s := sheetWith([2]string{alice, "1"}, [2]string{bob, "2"}, [2]string{carol, "3"})

	sum, err := s.SendAll(context.Background(), chain, token, 42431, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Confirmed)
	assert.Equal(t, 1, sum.Failed)

	rows := s.Rows()
	assert.Equal(t, StatusFailed, rows[0].Status)
	assert.Equal(t, "user rejected the request", rows[0].Err)
	assert.Empty(t, rows[0].TxHash)
	assert.Equal(t, StatusConfirmed, rows[1].Status)
	assert.Equal(t, StatusConfirmed, rows[2].Status)
}

func TestAllConfirmedMessage(t *testing.T) {
	chain := newFakeChain()
	s := sheetWith([2]string{alice, "1"}, [2]string{bob, "2"})

	sum, err := s.SendAll(context.Background(), chain, token, 42431, nil)
	require.NoError(t, err)
	assert.True(t, sum.OK())
	assert.Equal(t, "all 2 payments sent!", sum.String())
}

func TestExcludedRowsStayIdle(t *testing.T) {
	chain := newFakeChain()
	s := sheetWith([2]string{alice, "1"}, [2]string{bob, ""})

	_, err := s.SendAll(context.Background(), chain, token, 42431, nil)
	require.NoError(t, err)

	rows := s.Rows()
	assert.Equal(t, StatusConfirmed, rows[0].Status)
	assert.Equal(t, StatusIdle, rows[1].Status)
	assert.True(t, s.Edit(rows[1].ID, FieldAmount, "5"))
}

func TestSettleIgnoresTerminalRows(t *testing.T) {
	s := sheetWith([2]string{alice, "1"})
	id := s.Rows()[0].ID
	plan, err := s.Plan()
	require.NoError(t, err)
	s.MarkPending(plan)

	s.Settle([]Outcome{{RowID: id, TxHash: "0xaa"}})
	s.Settle([]Outcome{{RowID: id, Err: errors.New("late")}})

	r, _ := s.Row(id)
	assert.Equal(t, StatusConfirmed, r.Status)
	assert.Equal(t, "0xaa", r.TxHash)
	assert.Empty(t, r.Err)
}

func TestTotalAndFill(t *testing.T) {
	s := sheetWith([2]string{alice, "1.25"}, [2]string{bob, "abc"}, [2]string{carol, "2"})
	assert.Equal(t, "3.25", s.Total().String())

	r := s.Fill(alice)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, alice, r.Address)

	s.Reset()
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, StatusIdle, s.Rows()[0].Status)
}
