// Package blob provides the file-like object exchanged with a host file input and
// the data URL form it travels in.
package blob

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// ErrInvalidDataURL is returned when a string is not a base64 data URL.
var ErrInvalidDataURL = errors.New("invalid data url")

// File is an in-memory named file with a media type.
type File struct {
	Name string
	Type string
	Data []byte
}

// Size returns the length of the file contents in bytes.
func (f File) Size() int {
	return len(f.Data)
}

// fallbackType is used when a media type cannot be parsed.
const fallbackType = "application/octet-stream"

// ToDataURL encodes data as data:<mime>;base64,<payload>.
func ToDataURL(contentType string, data []byte) string {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil || strings.Count(mt, "/") != 1 {
		mt, params = fallbackType, nil
	}
	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, k, v)
	}
	return dataurl.New(data, mt, pairs...).String()
}

// ParseDataURL decodes a base64 data URL into its media type and raw bytes.
func ParseDataURL(s string) (string, []byte, error) {
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if du.Encoding != dataurl.EncodingBase64 {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURL)
	}
	return du.ContentType(), du.Data, nil
}

// FromDataURL builds a named File from a data URL, taking its type from the URL prefix.
func FromDataURL(s, name string) (File, error) {
	ct, data, err := ParseDataURL(s)
	if err != nil {
		return File{}, err
	}
	return File{Name: name, Type: ct, Data: data}, nil
}

// ReadAsDataURL returns the file contents as a data URL. A file with no type is
// sniffed from its contents.
func ReadAsDataURL(f File) string {
	ct := f.Type
	if ct == "" {
		ct = http.DetectContentType(f.Data)
	}
	return ToDataURL(ct, f.Data)
}
