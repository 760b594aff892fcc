package wallet

type BalanceResponse struct {
	Player  string  `json:"player"`
	Balance float64 `json:"balance"`
}

type AmountRequest struct {
	Amount float64 `json:"amount"`
}
