package recipe

import (
	"fmt"

	"onlypans/internal/pkg/common"
)

// MakeSlug 由標題產生網址用 slug，與既有 slug 衝突時附加數字序號
// --------------------------------------------------
func MakeSlug(title string, exists func(slug string) bool) string {
	base := common.Slugify(title)
	if base == "" {
		base = "recipe"
	}
	if exists == nil || !exists(base) {
		return base
	}
	// 序號由 1 起跳，首次衝突產生 title-1
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !exists(candidate) {
			return candidate
		}
	}
}
