package utils

import (
	"crypto/md5"
	"fmt"
)

// HashBytes returns the hex md5 digest used to fingerprint a loaded dataset.
func HashBytes(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf("%x", hash)
}
