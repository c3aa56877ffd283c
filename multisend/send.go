// Package multisend drives one token to several recipients in parallel.
// Each row settles on its own: one rejected transfer never cancels or rolls
// back another.
package multisend

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"payme-tui/helpers"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotConnected is returned when no signing wallet is available.
	ErrNotConnected = errors.New("connect your wallet first")
	// ErrNothingToSend is returned when no row has an address and amount.
	ErrNothingToSend = errors.New("add at least one recipient with an amount")
	// ErrDecimals is returned when the token precision cannot be read.
	ErrDecimals = errors.New("failed to read token decimals")
	// ErrReverted is the row error for a mined transfer with failed status.
	ErrReverted = errors.New("reverted")
)

// InvalidRowsError reports selected rows with a malformed address.
type InvalidRowsError struct {
	Count int
}

func (e *InvalidRowsError) Error() string {
	return fmt.Sprintf("%d recipient(s) have invalid addresses", e.Count)
}

// Chain is the wallet layer a batch runs against.
type Chain interface {
	CanSign() bool
	SwitchChain(ctx context.Context, chainID int64) error
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
	Transfer(ctx context.Context, token, to common.Address, amount *big.Int) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Transfer is one planned payment.
type Transfer struct {
	RowID   string
	Address string
	Amount  string
	Memo    string
}

// Plan is the ordered selection of a batch.
type Plan []Transfer

// Outcome is the result of one transfer. Err is nil on success.
type Outcome struct {
	RowID  string
	TxHash string
	Err    error
}

// Prepared holds what a batch needs before any transfer starts.
type Prepared struct {
	Decimals uint8
	// SwitchErr is the tolerated failure of the network switch, if any.
	SwitchErr error
}

// Ready checks that chain can sign.
func Ready(chain Chain) error {
	if chain == nil || !chain.CanSign() {
		return ErrNotConnected
	}
	return nil
}

// Prepare asks the wallet for the expected network and reads the token
// precision once. Only the precision read can fail the batch.
func Prepare(ctx context.Context, chain Chain, token common.Address, chainID int64) (Prepared, error) {
	if err := Ready(chain); err != nil {
		return Prepared{}, err
	}
	var p Prepared
	p.SwitchErr = chain.SwitchChain(ctx, chainID)

	dec, err := chain.TokenDecimals(ctx, token)
	if err != nil {
		return Prepared{}, fmt.Errorf("%w: %v", ErrDecimals, err)
	}
	p.Decimals = dec
	return p, nil
}

// Execute sends every transfer of plan concurrently and waits for all of
// them. Outcomes are returned in plan order.
func Execute(ctx context.Context, chain Chain, token common.Address, plan Plan, decimals uint8) []Outcome {
	outcomes := make([]Outcome, len(plan))

	// no derived context: a failed row must not cancel its siblings
	var g errgroup.Group
	for i, t := range plan {
		g.Go(func() error {
			outcomes[i] = send(ctx, chain, token, t, decimals)
			return nil
		})
	}
	// tasks never fail, per-row errors live in outcomes
	g.Wait()

	return outcomes
}

func send(ctx context.Context, chain Chain, token common.Address, t Transfer, decimals uint8) Outcome {
	out := Outcome{RowID: t.RowID}

	amount, err := helpers.ToBaseUnits(t.Amount, decimals)
	if err != nil {
		out.Err = err
		return out
	}
	hash, err := chain.Transfer(ctx, token, common.HexToAddress(t.Address), amount)
	if err != nil {
		out.Err = err
		return out
	}
	out.TxHash = hash.Hex()

	receipt, err := chain.WaitMined(ctx, hash)
	if err != nil {
		out.Err = err
		return out
	}
	if receipt == nil || receipt.Status != types.ReceiptStatusSuccessful {
		out.Err = ErrReverted
	}
	return out
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Confirmed int
	Failed    int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		if o.Err != nil {
			s.Failed++
		} else {
			s.Confirmed++
		}
	}
	return s
}

// OK reports whether every transfer went through.
func (s Summary) OK() bool {
	return s.Failed == 0
}

func (s Summary) String() string {
	if s.Failed == 0 {
		return fmt.Sprintf("all %d payments sent!", s.Confirmed)
	}
	return fmt.Sprintf("%d sent, %d failed", s.Confirmed, s.Failed)
}

// SendAll runs a whole batch: plan, prepare, mark pending, execute, settle.
// onPending, if set, is called right after the rows turn pending.
func (s *Sheet) SendAll(ctx context.Context, chain Chain, token common.Address, chainID int64, onPending func()) (Summary, error) {
	if err := Ready(chain); err != nil {
		return Summary{}, err
	}
	plan, err := s.Plan()
	if err != nil {
		return Summary{}, err
	}
	prep, err := Prepare(ctx, chain, token, chainID)
	if err != nil {
		return Summary{}, err
	}

	s.MarkPending(plan)
	if onPending != nil {
		onPending()
	}

	outcomes := Execute(ctx, chain, token, plan, prep.Decimals)
	s.Settle(outcomes)
	return Summarize(outcomes), nil
}
