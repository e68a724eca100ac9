package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	InvalidPurchaseAmount failure.ErrorCode = "InvalidPurchaseAmount"
	InvalidEmail          failure.ErrorCode = "InvalidEmail"
	InvalidDepositAmount  failure.ErrorCode = "InvalidDepositAmount"
	InvalidAddress        failure.ErrorCode = "InvalidAddress"
	SupplyExhausted       failure.ErrorCode = "SupplyExhausted"
	SessionNotFound       failure.ErrorCode = "SessionNotFound"
)
