package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateETag builds a strong ETag from a record id and its last
// update time.
func GenerateETag(id int64, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d-%d", id, updatedAt.UnixNano())))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
