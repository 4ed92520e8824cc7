package common

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalidPattern = regexp.MustCompile(`[^a-z0-9]+`)
	slugHyphenPattern  = regexp.MustCompile(`-{2,}`)
)

// Slugify 將標題轉成 URL slug：小寫、非英數字元轉連字號、去除頭尾連字號
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidPattern.ReplaceAllString(s, "-")
	s = slugHyphenPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FormatQuantity 輸出不帶多餘小數的數量字串（2.50 -> "2.5"、3.00 -> "3"）
func FormatQuantity(q float64) string {
	s := strconv.FormatFloat(q, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// Round1 四捨五入到小數點後一位，只在最終輸出時使用
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
