package series

import (
	"strconv"
	"strings"
)

// keyDelimiter joins the four storage key components. The base key and
// granularity names are validated delimiter-free at construction; entity
// keys are a caller contract.
const keyDelimiter = ":"

// encodeKey builds the storage key <base>:<name>:<window>:<entity>.
// An empty entity yields the bare prefix used to strip scan results.
func encodeKey(base, name string, window int64, entity string) string {
	return strings.Join([]string{base, name, strconv.FormatInt(window, 10), entity}, keyDelimiter)
}
