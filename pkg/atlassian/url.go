package atlassian

import "strings"

// String returns a pointer to s. It is a convenience for the optional URL
// segment parameters below, where a nil segment is omitted entirely while a
// pointer to the empty string is kept.
func String(s string) *string {
	return &s
}

// ResourceURL joins apiRoot, apiVersion and resource into a canonical REST
// path. Each non-nil segment is stripped of surrounding slashes and the
// results are joined with "/". Nil segments are omitted, which is how
// root-relative resources (no API root, or an unversioned API) are built;
// empty segments are treated as present.
func ResourceURL(resource string, apiRoot, apiVersion *string) string {
	return joinSegments(apiRoot, apiVersion, &resource)
}

// JoinURL joins base and path the same way ResourceURL joins its segments
// and appends a trailing "/" when requested. A nil base yields path alone,
// which is how absolute request URLs are passed through.
func JoinURL(base *string, path string, trailing bool) string {
	joined := joinSegments(base, &path)
	if trailing {
		joined += "/"
	}

	return joined
}

func joinSegments(segments ...*string) string {
	parts := make([]string, 0, len(segments))

	for _, s := range segments {
		if s == nil {
			continue
		}

		parts = append(parts, strings.Trim(*s, "/"))
	}

	return strings.Join(parts, "/")
}
