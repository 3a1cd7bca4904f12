package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorizedCaller caller is not the configurator
	ErrUnauthorizedCaller ErrorCode = 100001
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100002

	// ErrInstrumentNotFound no instrument
	ErrInstrumentNotFound ErrorCode = 100100
	// ErrDuplicateInstrument instrument already listed
	ErrDuplicateInstrument ErrorCode = 100101
	// ErrMaxInstrumentsReached instrument list is full
	ErrMaxInstrumentsReached ErrorCode = 100102
	// ErrInactiveInstrument instrument not active
	ErrInactiveInstrument ErrorCode = 100103
	// ErrFrozenInstrument instrument frozen
	ErrFrozenInstrument ErrorCode = 100104

	// ErrInsufficientBalance balance too low
	ErrInsufficientBalance ErrorCode = 100200
	// ErrInsufficientCollateral collateral does not cover the debt
	ErrInsufficientCollateral ErrorCode = 100201
	// ErrInsufficientLiquidity not enough cash in the pool
	ErrInsufficientLiquidity ErrorCode = 100202
	// ErrHealthFactorTooLow operation would leave the account liquidatable
	ErrHealthFactorTooLow ErrorCode = 100203
	// ErrBorrowingDisabled borrowing not enabled on the instrument
	ErrBorrowingDisabled ErrorCode = 100204
	// ErrStableBorrowingDisabled stable rate not enabled on the instrument
	ErrStableBorrowingDisabled ErrorCode = 100205
	// ErrExceedsStableBorrowCap user stable debt exceeds the reserve cap
	ErrExceedsStableBorrowCap ErrorCode = 100206
	// ErrNoDebt no debt outstanding for the chosen rate mode
	ErrNoDebt ErrorCode = 100207
	// ErrRebalanceNotAllowed rebalance conditions not met
	ErrRebalanceNotAllowed ErrorCode = 100208
	// ErrTransferNotAllowed transfer would break collateral requirements
	ErrTransferNotAllowed ErrorCode = 100209
	// ErrSeizeNotAllowed seize not allowed
	ErrSeizeNotAllowed ErrorCode = 100210

	// ErrInvalidPrice oracle price missing or non positive
	ErrInvalidPrice ErrorCode = 100300
	// ErrFlashLoanCallbackFailed receiver did not settle the loan
	ErrFlashLoanCallbackFailed ErrorCode = 100301
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
