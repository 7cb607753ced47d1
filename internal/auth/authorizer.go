package auth

import (
	"strconv"
	"strings"
)

// Authorizer answers whether a Telegram user may use the bot.
// It is built once at startup and never modified afterwards.
type Authorizer struct {
	allowed map[int64]struct{}
}

// NewAuthorizer builds an Authorizer from raw allow-list entries.
// Entries that are not base-10 integers are dropped and never match.
func NewAuthorizer(entries []string) *Authorizer {
	allowed := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		id, err := strconv.ParseInt(strings.TrimSpace(e), 10, 64)
		if err != nil {
			continue
		}
		allowed[id] = struct{}{}
	}
	return &Authorizer{allowed: allowed}
}

// ParseList splits a comma-separated allow-list such as "123, 456".
func ParseList(s string) *Authorizer {
	return NewAuthorizer(strings.Split(s, ","))
}

func (a *Authorizer) IsAuthorized(userID int64) bool {
	if a == nil {
		return false
	}
	_, ok := a.allowed[userID]
	return ok
}

// Len reports how many valid ids were loaded.
func (a *Authorizer) Len() int {
	if a == nil {
		return 0
	}
	return len(a.allowed)
}
