package redis

import "fmt"

// Default key prefix for all roster data
const defaultKeyPrefix = "pelada"

// registrationsKey returns the Redis key for the HASH of name -> registered-at
func registrationsKey(prefix string) string {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return fmt.Sprintf("%s:registrations", prefix)
}
