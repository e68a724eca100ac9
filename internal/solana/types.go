package solana

// Well-known mainnet addresses.
const (
	// USDCMint is the mainnet USDC mint address.
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// getTokenAccountsResult is the raw RPC response for
// getTokenAccountsByOwner with jsonParsed encoding.
type getTokenAccountsResult struct {
	Value []tokenAccountEntry `json:"value"`
}

type tokenAccountEntry struct {
	Pubkey  string           `json:"pubkey"`
	Account tokenAccountData `json:"account"`
}

type tokenAccountData struct {
	Data tokenAccountParsedWrap `json:"data"`
}

type tokenAccountParsedWrap struct {
	Parsed tokenAccountParsed `json:"parsed"`
}

type tokenAccountParsed struct {
	Info tokenAccountInfo `json:"info"`
}

type tokenAccountInfo struct {
	Mint        string      `json:"mint"`
	Owner       string      `json:"owner"`
	TokenAmount tokenAmount `json:"tokenAmount"`
}

type tokenAmount struct {
	Amount   string  `json:"amount"`
	Decimals int     `json:"decimals"`
	UIAmount float64 `json:"uiAmount"`
}
