package rest

import (
	"fmt"
	"sort"
	"strings"
)

// curlCommand renders a request as an equivalent cURL command line for the
// debug trace. Headers are sorted so the output is stable.
func curlCommand(method, requestURL string, headers map[string]string, body []byte) string {
	var b strings.Builder

	b.WriteString("curl --silent -X ")
	b.WriteString(method)

	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(&b, " -H '%s: %s'", key, headers[key])
	}

	if len(body) > 0 {
		fmt.Fprintf(&b, " --data '%s'", body)
	}

	fmt.Fprintf(&b, " '%s'", requestURL)

	return b.String()
}
