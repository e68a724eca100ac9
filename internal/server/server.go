// Package server exposes the storefront over HTTP JSON.
package server

// Server bundles the entity-specific HTTP servers behind one route table.
type Server struct {
	SaleServer
	DepositServer
}

func NewServer(
	saleServer SaleServer,
	depositServer DepositServer,
) Server {
	return Server{
		SaleServer:    saleServer,
		DepositServer: depositServer,
	}
}
