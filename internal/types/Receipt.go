package types

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Receipt records the outcome of one execute call.
type Receipt struct {
	TraceID    string     `json:"trace_id"`
	Height     int64      `json:"height"`
	Time       time.Time  `json:"time"`
	Sender     string     `json:"sender"`
	Contract   string     `json:"contract"`
	MsgType    string     `json:"msg_type"`
	Funds      sdk.Coins  `json:"funds"`
	Success    bool       `json:"success"`
	Error      string     `json:"error,omitempty"`
	Events     sdk.Events `json:"events,omitempty"`
	DurationMs int64      `json:"duration_ms"`
}

// EpochRecord records one executed rebase.
type EpochRecord struct {
	Number uint64    `json:"number"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Minted string    `json:"minted"`
	Apr    string    `json:"apr"`
	Height int64     `json:"height"`
}
