package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// Text escapes operator-provided free text (forbidden words, search input)
// before it is stored or echoed back.
func Text(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

func TextPtr(input *string) *string {
	if input == nil {
		return nil
	}
	value := Text(*input)
	return &value
}

// Detail strips any markup from log detail strings coming off the wire.
func Detail(input string) string {
	value := strings.TrimSpace(input)
	if value == "" {
		return ""
	}
	return getStrictPolicy().Sanitize(value)
}

func getStrictPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}
