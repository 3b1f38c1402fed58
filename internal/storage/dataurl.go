package storage

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// DefaultInlinePrefix and DefaultInlineThreshold identify inline images that
// belong in the Blob Store rather than inside a document.
const (
	DefaultInlinePrefix    = "data:image"
	DefaultInlineThreshold = 1024
)

// IsInlineImage reports whether s starts with prefix and is strictly longer
// than threshold characters.
func IsInlineImage(s, prefix string, threshold int) bool {
	return strings.HasPrefix(s, prefix) && len(s) > threshold
}

// IsBlobKey reports whether s looks like a key produced by NewBlobKey.
func IsBlobKey(s string) bool {
	return strings.HasPrefix(s, BlobKeyPrefix) && len(s) > len(BlobKeyPrefix)
}

// DecodeDataURL splits an RFC 2397 data URL into its media type and payload.
// The media type defaults to text/plain when omitted.
func DecodeDataURL(s string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURL)
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta = m
		isBase64 = true
	}

	mediaType = meta
	if mediaType == "" || strings.HasPrefix(mediaType, ";") {
		mediaType = "text/plain" + mediaType
	}

	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		return mediaType, data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mediaType, []byte(unescaped), nil
}
