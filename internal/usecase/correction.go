package usecase

import (
	"regexp"
	"strings"
)

// correctionSentinel delimits an embedded correction tip inside free-form
// model output.
const correctionSentinel = "💡"

// tipPattern captures the tip text after the sentinel up to the end of the
// line or of the string. Only the first match is extracted and removed.
var tipPattern = regexp.MustCompile(correctionSentinel + `\s*(.+?)(?:\n|$)`)

// ExtractCorrection splits a correction tip out of model output. The
// returned body has the first sentinel line removed; with no sentinel the
// body is the input unchanged and the tip is empty. A sentinel appearing
// mid-sentence starts the tip segment from that point.
func ExtractCorrection(text string) (body, tip string) {
	m := tipPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return text, ""
	}
	tip = strings.TrimSpace(text[m[2]:m[3]])
	body = strings.TrimSpace(text[:m[0]] + text[m[1]:])
	return body, tip
}
