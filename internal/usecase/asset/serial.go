package asset

import (
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const serialAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewSerial builds a human-readable serial: the creation time in
// milliseconds as upper-case base36, followed by three random characters.
func NewSerial(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(serialAlphabet, 3)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)) + suffix, nil
}
