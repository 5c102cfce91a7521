// Package cache stores upstream player lists (titled players, country
// members) so opponent selection does not refetch them on every request.
package cache

import (
	"context"
	"strings"
)

// PlayerListCache is a keyed store of username lists with expiry.
// Get reports ok=false for a missing or expired entry.
type PlayerListCache interface {
	Get(ctx context.Context, key string) (usernames []string, ok bool, err error)
	Put(ctx context.Context, key string, usernames []string) error
}

// TitledKey is the cache key for the list of players holding title.
func TitledKey(title string) string {
	return "titled:" + strings.ToUpper(title)
}

// CountryKey is the cache key for the players of the ISO country iso.
func CountryKey(iso string) string {
	return "country:" + strings.ToUpper(iso)
}
