package rpc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mdp/qrterminal/v3"
)

// TransferRequest describes an ERC-20 payment a wallet app can execute.
type TransferRequest struct {
	Token   common.Address
	To      common.Address
	Amount  *big.Int // base units
	ChainID int64
}

// URI renders the request as an EIP-681 transfer URI:
// ethereum:<token>@<chainId>/transfer?address=<to>&uint256=<amount>
func (r TransferRequest) URI() string {
	amount := r.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	return fmt.Sprintf("ethereum:%s@%d/transfer?address=%s&uint256=%s",
		r.Token.Hex(), r.ChainID, r.To.Hex(), amount.String())
}

// GenerateQRCode renders data as a half-block terminal QR code.
func GenerateQRCode(data string) string {
	var sb strings.Builder
	qrterminal.GenerateHalfBlock(data, qrterminal.L, &sb)
	return strings.TrimRight(sb.String(), "\n")
}
