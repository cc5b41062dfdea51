package studio

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/genstudio/internal/backend"
	"github.com/dmitrijs2005/genstudio/internal/common"
	"github.com/dmitrijs2005/genstudio/internal/media"
)

// successPhrases is the prioritized list of "confident success language"
// markers. A text-only response containing one of these claimed to deliver
// an image without actually attaching one, which is a different failure from
// an outright refusal and is surfaced as "try again".
//
// The list is inherently fuzzy and a known maintenance liability; keep it
// short and explicit rather than clever.
var successPhrases = []string{
	"here is",
	"here's",
	"here you go",
	"generated the image",
	"i've generated",
	"i have generated",
	"i've created",
	"i have created",
	"image is ready",
	"sure",
	"absolutely",
	"certainly",
	"of course",
}

// classifyImageResult turns a transport-level image result into either a
// storable media locator or a structured error. The checks run in priority
// order: explicit safety block, inline image data, then text classification.
func classifyImageResult(res *backend.ImageResult) (string, error) {
	if res.Blocked {
		if res.BlockReason != "" {
			return "", fmt.Errorf("%w: %s", common.ErrorBlocked, res.BlockReason)
		}
		return "", common.ErrorBlocked
	}

	if len(res.Data) > 0 {
		mime := res.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return media.DataURL(res.Data, mime), nil
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", common.ErrorFalseSuccess)
	}

	lower := strings.ToLower(text)
	for _, phrase := range successPhrases {
		if strings.Contains(lower, phrase) {
			return "", common.ErrorFalseSuccess
		}
	}

	return "", fmt.Errorf("%w: %s", common.ErrorRefused, truncate(text, common.RefusalDetailLimit))
}

// truncate bounds s to limit runes, appending an ellipsis when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
