package invoice

import (
	"errors"
	"strconv"
	"strings"

	"payme-tui/api"
	"payme-tui/helpers"
	"payme-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
)

// ErrAlreadyPaid is returned when asked to pay a settled invoice.
var ErrAlreadyPaid = errors.New("invoice is already paid")

// PaymentRequest builds the token transfer that settles inv. The invoice's
// own chain id wins over chainID when it carries one.
func PaymentRequest(inv api.Invoice, decimals uint8, chainID int64) (rpc.TransferRequest, error) {
	if inv.Paid() {
		return rpc.TransferRequest{}, ErrAlreadyPaid
	}
	merchant := strings.TrimSpace(inv.MerchantAddress)
	if !helpers.IsValidEthAddress(merchant) {
		return rpc.TransferRequest{}, ErrInvalidRecipient
	}
	token := strings.TrimSpace(inv.TokenAddress)
	if !helpers.IsValidEthAddress(token) {
		return rpc.TransferRequest{}, ErrInvalidToken
	}
	amount, err := helpers.ToBaseUnits(inv.Amount.String(), decimals)
	if err != nil {
		return rpc.TransferRequest{}, err
	}
	if id, err := strconv.ParseInt(inv.ChainID, 10, 64); err == nil && id > 0 {
		chainID = id
	}
	return rpc.TransferRequest{
		Token:   common.HexToAddress(token),
		To:      common.HexToAddress(merchant),
		Amount:  amount,
		ChainID: chainID,
	}, nil
}
