// utils/random.go
package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentNumber builds a human-readable reference like INV-20240131-9F2C41A7.
func DocumentNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + time.Now().Format("20060102") + "-" + suffix
}
