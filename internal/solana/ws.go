package solana

import "context"

// WSClient defines Solana WebSocket subscription interface. The deposit
// manager uses account notifications as push hints to re-check balances
// without waiting for the next poll tick.
type WSClient interface {
	// SubscribeAccount subscribes to change notifications for a pubkey.
	SubscribeAccount(ctx context.Context, pubkey string) (<-chan AccountNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// AccountNotification represents an accountSubscribe message.
type AccountNotification struct {
	Pubkey   string
	Slot     int64
	Lamports uint64
}
