package diff

import (
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Diff renders what has to change in got to make it equal want, or "" when
// they already match. It is meant for test failure messages on values whose
// testify dump is hard to read, like stitched documents with many spans.
func Diff[T any](want T, got T) string {
	abc := cmp.Diff(got, want)
	if abc == "" {
		return ""
	}
	str := "\n\n"
	str += "to convert ACTUAL ⏩️ EXPECTED:\n\n"
	str += "add:    ➕\n"
	str += "remove: ➖\n"
	str += "\n"
	str += strings.ReplaceAll(strings.ReplaceAll("\n"+abc, "\n-", "\n➖"), "\n+", "\n➕")

	return str
}
