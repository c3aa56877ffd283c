package rpc

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	bind "github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrNoSigner is returned by write operations on a watch-only wallet.
	ErrNoSigner = errors.New("no signing key configured")
	// ErrWrongChain is returned when the node serves a different chain.
	ErrWrongChain = errors.New("connected to a different chain")
	// ErrReverted marks a mined transaction whose status is failure.
	ErrReverted = errors.New("reverted")
)

func errUnexpectedReturn(n int) error {
	return fmt.Errorf("unexpected return data length: %d", n)
}

// Wallet signs and submits token transfers from one account. Without a key
// it is watch-only: reads work, writes return ErrNoSigner.
type Wallet struct {
	client *Client
	key    *ecdsa.PrivateKey
	from   common.Address

	mu        sync.Mutex
	nextNonce *uint64
	chainID   *big.Int
}

// NewWallet builds a wallet on client. hexKey may be empty for a watch-only
// wallet, in which case watch is used as the account address.
func NewWallet(client *Client, hexKey string, watch string) (*Wallet, error) {
	w := &Wallet{client: client}
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		if watch != "" {
			w.from = common.HexToAddress(watch)
		}
		return w, nil
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	w.key = key
	w.from = crypto.PubkeyToAddress(key.PublicKey)
	return w, nil
}

// Address returns the wallet account.
func (w *Wallet) Address() common.Address {
	return w.from
}

// Connected reports whether the wallet has an RPC connection and an account.
func (w *Wallet) Connected() bool {
	return w != nil && w.client != nil && w.client.Client != nil && w.from != (common.Address{})
}

// CanSign reports whether the wallet can submit transactions.
func (w *Wallet) CanSign() bool {
	return w.Connected() && w.key != nil
}

// SwitchChain checks that the node serves chainID. A local signer cannot
// move the node, so a mismatch is reported as ErrWrongChain.
func (w *Wallet) SwitchChain(ctx context.Context, chainID int64) error {
	id, err := w.networkID(ctx)
	if err != nil {
		return err
	}
	if id.Int64() != chainID {
		return fmt.Errorf("%w: want %d, node reports %s", ErrWrongChain, chainID, id)
	}
	return nil
}

// TokenDecimals reads decimals() of token.
func (w *Wallet) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	if w.client == nil || w.client.Client == nil {
		return 0, errors.New("no RPC client")
	}
	return erc20Decimals(ctx, w.client.Client, token)
}

// TokenBalance reads balanceOf(owner) of token.
func (w *Wallet) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	if w.client == nil || w.client.Client == nil {
		return nil, errors.New("no RPC client")
	}
	return erc20BalanceOf(ctx, w.client.Client, token, owner)
}

// Transfer signs and broadcasts token.transfer(to, amount) and returns the
// transaction hash. Safe for concurrent use: nonces are handed out in order.
func (w *Wallet) Transfer(ctx context.Context, token, to common.Address, amount *big.Int) (common.Hash, error) {
	if !w.CanSign() {
		return common.Hash{}, ErrNoSigner
	}
	data := transferCalldata(to, amount)

	gas, err := w.client.EstimateGas(ctx, ethereum.CallMsg{From: w.from, To: &token, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}
	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas price: %w", err)
	}
	chainID, err := w.networkID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	// nonce assignment and broadcast happen under the lock so transactions
	// reach the node in nonce order
	w.mu.Lock()
	defer w.mu.Unlock()

	nonce, err := w.reserveNonce(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &token,
		Value:    big.NewInt(0),
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		w.nextNonce = nil
		return common.Hash{}, fmt.Errorf("sign: %w", err)
	}
	if err := w.client.SendTransaction(ctx, signed); err != nil {
		// the node did not take the nonce; refetch on the next transfer
		w.nextNonce = nil
		return common.Hash{}, fmt.Errorf("send: %w", err)
	}
	next := nonce + 1
	w.nextNonce = &next
	return signed.Hash(), nil
}

// reserveNonce must be called with mu held.
func (w *Wallet) reserveNonce(ctx context.Context) (uint64, error) {
	if w.nextNonce != nil {
		return *w.nextNonce, nil
	}
	n, err := w.client.PendingNonceAt(ctx, w.from)
	if err != nil {
		return 0, fmt.Errorf("nonce: %w", err)
	}
	return n, nil
}

// WaitMined blocks until hash has a receipt. A mined but failed transaction
// returns ErrReverted.
func (w *Wallet) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if w.client == nil || w.client.Client == nil {
		return nil, errors.New("no RPC client")
	}
	return waitMined(ctx, w.client, hash)
}

func waitMined(ctx context.Context, b bind.DeployBackend, hash common.Hash) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, b, hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, ErrReverted
	}
	return receipt, nil
}

func (w *Wallet) networkID(ctx context.Context) (*big.Int, error) {
	w.mu.Lock()
	cached := w.chainID
	w.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	if w.client == nil || w.client.Client == nil {
		return nil, errors.New("no RPC client")
	}
	id, err := w.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	w.mu.Lock()
	w.chainID = id
	w.mu.Unlock()
	return id, nil
}
