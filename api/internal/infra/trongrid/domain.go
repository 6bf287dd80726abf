package trongrid

import "errors"

// Transfer is a single TRC20 transfer as reported by the trongrid
// /accounts/{address}/transactions/trc20 endpoint. never persisted
type Transfer struct {
	TransactionID  string    `json:"transaction_id"`
	BlockTimestamp int64     `json:"block_timestamp"` // ms
	From           string    `json:"from"`
	To             string    `json:"to"`
	Value          string    `json:"value"` // smallest unit, decimal string
	TokenInfo      TokenInfo `json:"token_info"`
}

type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

type transfersResponse struct {
	Data    []Transfer `json:"data"`
	Success bool       `json:"success"`
}

// TransientError marks a fetch failure as "no new information". the
// caller retries on the next tick and must not advance its checkpoint
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
