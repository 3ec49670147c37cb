package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

const receiptSuffixLength = 6
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReceiptNumber builds a donation receipt number like
// WP-20260830-X4K9QZ. Uniqueness is enforced by the DB column.
func GenerateReceiptNumber() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, receiptSuffixLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}

	return fmt.Sprintf("WP-%s-%s", time.Now().Format("20060102"), string(b))
}

var slugCleanRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a blog title into a URL slug.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleanRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
