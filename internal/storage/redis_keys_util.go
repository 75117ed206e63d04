package storage

import "fmt"

const (
	// Redis namespace for all keys owned by this service.
	redisNamespace = "rimdash"
	// Hash field for the last write time of a value.
	KVMeta_HSet_UpdatedAt = "updated_at"
)

// String
func (s RedisStorage) key_Value(key string) string {
	return fmt.Sprintf("%s:kv:%s", redisNamespace, key)
}

// HSet
func (s RedisStorage) key_Meta(key string) string {
	return fmt.Sprintf("%s:kv:%s:meta", redisNamespace, key)
}
