package feedback

import "regexp"

// DisplayMaxLength is the default truncation applied when showing a
// report body to other users.
const DisplayMaxLength = 200

const (
	userPlaceholder = "[user]"
	linkPlaceholder = "[link]"
	ellipsis        = "..."
)

var (
	mentionPattern = regexp.MustCompile(`@\w+`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
)

// AnonymizeForDisplay strips identifying tokens from a report body and
// truncates it for display. @handle tokens and URLs become
// placeholders; text longer than maxLength runes is cut with an
// ellipsis appended. The transform is idempotent: re-applying it to
// its own output changes nothing.
func AnonymizeForDisplay(body string, maxLength int) string {
	out := mentionPattern.ReplaceAllString(body, userPlaceholder)
	out = urlPattern.ReplaceAllString(out, linkPlaceholder)

	runes := []rune(out)
	if maxLength > 0 && len(runes) > maxLength+len(ellipsis) {
		out = string(runes[:maxLength]) + ellipsis
	}
	return out
}
