// Package netx holds small HTTP helpers used by the REST client: path
// segment escaping, multipart bodies and Content-Disposition parsing.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"path"
	"strings"
)

// EscapePathSegment percent-encodes s so it survives as exactly one path
// segment. Every reserved character is escaped, including '/', '+' and
// space (as %20), because the backend query-unescapes the segment.
func EscapePathSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MultipartFile encodes r as a single-file multipart/form-data body under
// field. It returns the body and the Content-Type header value.
func MultipartFile(field, filename string, r io.Reader) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile(field, path.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("copy form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return body, mw.FormDataContentType(), nil
}

// AttachmentFilename extracts the filename from a Content-Disposition header.
// Unquoted names containing spaces, which mime.ParseMediaType rejects, are
// still recovered. Returns "" when no filename is present.
func AttachmentFilename(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return path.Base(name)
		}
	}

	_, raw, ok := strings.Cut(header, "filename=")
	if !ok {
		return ""
	}
	if i := strings.Index(raw, ";"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return ""
	}
	return path.Base(raw)
}
