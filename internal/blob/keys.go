package blob

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// XLSXContentType is the MIME type stored with uploaded workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DietFileKey builds the object key of an uploaded diet spreadsheet:
// <prefix>/<user>/<diet id>/<sanitized file name>.
func DietFileKey(prefix, userID string, dietID uuid.UUID, fileName string) string {
	name := unsafeKeyChars.ReplaceAllString(path.Base(strings.ReplaceAll(fileName, `\`, "/")), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "diet.xlsx"
	}

	user := unsafeKeyChars.ReplaceAllString(userID, "_")
	if user == "" {
		user = "anonymous"
	}

	return path.Join(strings.Trim(prefix, "/"), user, dietID.String(), name)
}

// PublicURL joins a public bucket base URL with an object key.
func PublicURL(baseURL, key string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + key
}
