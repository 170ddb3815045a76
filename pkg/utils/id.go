package utils

import (
	"fmt"
	"sync"
	"time"
)

// GenerateID creates schema-aligned IDs
// Format: prefix-timestamp-counter (e.g., "hadith-1705612800000-001")
func GenerateID(prefix string) string {
	timestamp := time.Now().UnixMilli()
	counter := atomicCounter()
	return fmt.Sprintf("%s-%d-%03d", prefix, timestamp, counter)
}

// GenerateHadithID creates hadith-specific ID
func GenerateHadithID() string {
	return GenerateID("hadith")
}

// GenerateContributionID creates contribution-specific ID
func GenerateContributionID() string {
	return GenerateID("contrib")
}

// GenerateUnlockID creates achievement-unlock ID
func GenerateUnlockID() string {
	return GenerateID("unlock")
}

// atomicCounter provides thread-safe sequential counters
var (
	counter int64
	mu      sync.Mutex
)

func atomicCounter() int {
	mu.Lock()
	defer mu.Unlock()
	counter++
	return int(counter)
}
