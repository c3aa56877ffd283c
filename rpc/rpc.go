package rpc

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL string
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	// DialContext is lazy for http endpoints; make one call so a dead
	// endpoint surfaces here rather than on the first transfer.
	if _, err := client.ChainID(ctx); err != nil {
		client.Close()
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
		},
		Error: nil,
	}
}

// TokenBalance represents an ERC20 token balance
type TokenBalance struct {
	Symbol   string
	Decimals uint8
	Balance  *big.Int
}

// WatchedToken represents a token to query
type WatchedToken struct {
	Symbol  string
	Address common.Address
}

// Balances contains the token balances of one account
type Balances struct {
	Address    string
	Tokens     []TokenBalance
	LoadedAt   time.Time
	ErrMessage string
}

// LoadBalances fetches watched token balances for an address
func LoadBalances(client *Client, addr common.Address, watch []WatchedToken) Balances {
	return LoadBalancesWithTimeout(client, addr, watch, 12*time.Second)
}

// LoadBalancesWithTimeout fetches balances with a custom timeout
func LoadBalancesWithTimeout(client *Client, addr common.Address, watch []WatchedToken, timeout time.Duration) Balances {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	b := Balances{
		Address:  addr.Hex(),
		LoadedAt: time.Now(),
	}

	if client == nil || client.Client == nil {
		b.ErrMessage = "No RPC client (set ETH_RPC_URL)."
		return b
	}

	var toks []TokenBalance
	for _, t := range watch {
		dec, err := erc20Decimals(ctx, client.Client, t.Address)
		if err != nil {
			continue
		}
		bal, err := erc20BalanceOf(ctx, client.Client, t.Address, addr)
		if err != nil {
			// skip token silently
			continue
		}
		toks = append(toks, TokenBalance{
			Symbol:   t.Symbol,
			Decimals: dec,
			Balance:  bal,
		})
	}

	sort.Slice(toks, func(i, j int) bool {
		return strings.ToLower(toks[i].Symbol) < strings.ToLower(toks[j].Symbol)
	})
	b.Tokens = toks

	return b
}

// Minimal ERC20 calls via eth_call.
var (
	// keccak256("balanceOf(address)")[:4]
	balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}
	// keccak256("decimals()")[:4]
	decimalsSelector = []byte{0x31, 0x3c, 0xe5, 0x67}
	// keccak256("transfer(address,uint256)")[:4]
	transferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}
)

// contractCaller is the subset of ethclient used for reads.
type contractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

func erc20BalanceOf(ctx context.Context, client contractCaller, token common.Address, owner common.Address) (*big.Int, error) {
	// calldata = selector + 32-byte left-padded address
	padded := common.LeftPadBytes(owner.Bytes(), 32)
	data := append(append([]byte{}, balanceOfSelector...), padded...)

	msg := ethereum.CallMsg{
		To:   &token,
		Data: data,
	}
	out, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(out), nil
}

func erc20Decimals(ctx context.Context, client contractCaller, token common.Address) (uint8, error) {
	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: decimalsSelector}, nil)
	if err != nil {
		return 0, err
	}
	if len(out) != 32 {
		return 0, errUnexpectedReturn(len(out))
	}
	v := new(big.Int).SetBytes(out)
	if !v.IsUint64() || v.Uint64() > 255 {
		return 0, errUnexpectedReturn(len(out))
	}
	return uint8(v.Uint64()), nil
}

// transferCalldata encodes transfer(to, amount).
func transferCalldata(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, 4+64)
	data = append(data, transferSelector...)
	data = append(data, common.LeftPadBytes(to.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return data
}
