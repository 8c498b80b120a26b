package storage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

func publicURL(base, bucket, key string) string {
	return base + "/" + bucket + "/" + url.PathEscape(key)
}

// splitPublicURL recovers bucket and key from a URL built by publicURL.
func splitPublicURL(base, raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, base+"/")
	if !ok {
		return "", "", shared.NewValidationError(fmt.Sprintf("url %q is not served by this storage", raw))
	}
	bucket, escaped, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || escaped == "" {
		return "", "", shared.NewValidationError(fmt.Sprintf("url %q has no bucket/key path", raw))
	}
	key, err = url.PathUnescape(escaped)
	if err != nil {
		return "", "", shared.NewValidationError(fmt.Sprintf("url %q has an invalid key", raw))
	}
	return bucket, key, nil
}
