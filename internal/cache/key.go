package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// keySeparator cannot appear in a grade number and is not expected in
// curriculum names, so ("a-b", "c") and ("a", "b-c") never collide.
const keySeparator = "\x1f"

// SettingsKey derives the cache identity for a (grade, subject, language,
// topic) tuple.
func SettingsKey(grade int, subject, language, topic string) string {
	raw := strings.Join([]string{strconv.Itoa(grade), subject, language, topic}, keySeparator)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
