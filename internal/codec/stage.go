package codec

import "strings"

// stripStage removes the leading /{stage} segment from path when it
// matches stage as an exact segment. The default stage markers "" and
// "$default" never strip, and a path that does not start with the stage
// segment comes back unchanged. Stripping is idempotent: once removed,
// the path no longer begins with the stage segment.
func stripStage(path, stage string) string {
	if stage == "" || stage == "$default" {
		return path
	}
	prefix := "/" + stage
	if path == prefix {
		return "/"
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix):]
	}
	return path
}
