package uploadgate

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// \s alone is ASCII-only; \p{Zs} picks up Unicode space separators such as
// the non-breaking space.
var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// SanitizeFileName replaces every run of whitespace in name with a single
// underscore. All other characters pass through unchanged, extension
// included.
func SanitizeFileName(name string) string {
	return whitespaceRun.ReplaceAllString(name, "_")
}

// UniqueFileName prefixes the sanitized original filename with a random
// UUID so that two uploads of the same name never map to the same object.
func UniqueFileName(name string) string {
	return uuid.New().String() + "_" + SanitizeFileName(name)
}

// StoragePath composes the bucket-relative key for an object:
// uploads/{userID}/{scope}/{fileName}. The scope is the raw project ID
// for model files or a gallery_videos/{contextID} segment for videos.
func StoragePath(userID, scope, fileName string) string {
	return fmt.Sprintf("uploads/%s/%s/%s", userID, scope, fileName)
}
