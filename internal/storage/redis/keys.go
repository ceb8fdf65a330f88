package redis

import "fmt"

// Key prefix for all scheduler data
const keyPrefix = "sportsched"

// revokedTokenKey returns the Redis key marking a token ID as revoked
func revokedTokenKey(tokenID string) string {
	return fmt.Sprintf("%s:revoked_token:%s", keyPrefix, tokenID)
}
