package logger

import (
	"fmt"
	"log/slog"

	"github.com/alphabill-org/alphabill-escrow/types"
)

/*
Log attribute key values. Generally shouldn't be used directly, use
appropriate "attribute constructor function" instead.

Only define names here if they are common for multiple modules, module
specific names should be defined in the module.
*/
const (
	ErrorKey  = "err"
	RoundKey  = "round"
	UnitIDKey = "unit_id"
	DataKey   = "data"
)

/*
Error adds error to the log

	if err:= f(); err != nil {
		log.Error("calling f", logger.Error(err))
	}
*/
func Error(err error) slog.Attr {
	return slog.Any(ErrorKey, err)
}

// Round adds the current round number to the log.
func Round(round uint64) slog.Attr {
	return slog.Uint64(RoundKey, round)
}

/*
UnitID is used to log ID of the primary unit (payment, counter, registry
entry,...) associated to the logging call.
*/
func UnitID(id types.UnitID) slog.Attr {
	return slog.String(UnitIDKey, fmt.Sprintf("%X", []byte(id)))
}

/*
Data adds additional data field to the message.

Use of anonymous types is discouraged.
*/
func Data(d any) slog.Attr {
	return slog.Any(DataKey, d)
}
