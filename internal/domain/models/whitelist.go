package models

import "github.com/ethereum/go-ethereum/common"

// WhitelistStatus is the outcome of an allow-list check. Unknown means the
// check could not be answered and must not be read as a denial.
type WhitelistStatus string

const (
	WhitelistConfirmed WhitelistStatus = "whitelisted"
	WhitelistAbsent    WhitelistStatus = "not-whitelisted"
	WhitelistUnknown   WhitelistStatus = "unknown"
)

// WhitelistCheck is the result of checking one allow-list entry.
type WhitelistCheck struct {
	Plugin         PluginAddress   `json:"plugin"`
	GuardedAccount common.Address  `json:"guardedAccount"`
	CounterAccount common.Address  `json:"counterAccount"`
	Status         WhitelistStatus `json:"status"`
	Error          string          `json:"error,omitempty"`
}

// WhitelistEdit names an allow-list mutation.
type WhitelistEdit string

const (
	WhitelistAdd    WhitelistEdit = "add"
	WhitelistRemove WhitelistEdit = "remove"
)
