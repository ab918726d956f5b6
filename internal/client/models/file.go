// Package models defines the wire and display types of the DocuDefense client.
package models

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FileRecord is one uploaded version of a document. Version is unique per
// (owner, filename); the highest version is the current one.
type FileRecord struct {
	ID                string    `json:"id,omitempty"`
	UserID            string    `json:"user_id,omitempty"`
	Filename          string    `json:"filename"`
	Version           int       `json:"version"`
	PreviousVersionID string    `json:"previous_version_id,omitempty"`
	UploadDate        time.Time `json:"upload_date"`
}

// UploadResult is the upload response body. The backend encodes the version
// as a string.
type UploadResult struct {
	Message  string  `json:"message"`
	Filename string  `json:"filename"`
	Version  FlexInt `json:"version"`
}

// Download is an open file stream returned by the backend. The caller must
// close Body.
type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// FlexInt decodes an integer sent either as a JSON number or a numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", string(b), err)
	}
	*f = FlexInt(n)
	return nil
}

// DisplayName decodes a filename the backend may have percent-encoded.
// Names that are not valid escapes are returned unchanged.
func DisplayName(filename string) string {
	decoded, err := url.PathUnescape(filename)
	if err != nil {
		return filename
	}
	return decoded
}
