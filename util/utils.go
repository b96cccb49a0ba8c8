package util

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"
)

var shortCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

func GenerateShortCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = shortCodeCharset[rand.Intn(len(shortCodeCharset))]
	}
	return string(b)
}

// NewSpotID builds a place identifier of the form P_20250920T004432_YK:
// a compact UTC timestamp plus a two-character random suffix.
func NewSpotID(now time.Time) string {
	return fmt.Sprintf("P_%s_%s", now.UTC().Format("20060102T150405"), GenerateShortCode(2))
}

// ParseTags splits a comma-separated tag string, trimming whitespace and
// dropping empty entries.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// KoreanDate renders a date as "2025년 9월 20일".
func KoreanDate(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}

// AppendTipContent appends accepted suggestion content beneath a dated
// header instead of overwriting the existing expert tip. An empty existing
// tip yields just the header block.
func AppendTipContent(existing, content string, now time.Time) string {
	appendix := fmt.Sprintf("[%s 추가된 내용]\n%s", KoreanDate(now), content)
	if existing == "" {
		return appendix
	}
	return existing + "\n\n" + appendix
}

// IntPtr returns a pointer to the given integer.
func IntPtr(i int) *int {
	return &i
}
