package key

import "strings"

// IsExternalURL reports whether url points outside the workspace graph
// (http(s) or mailto), as opposed to an internal reference that resolves to
// another Key.
func IsExternalURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "mailto:")
}

// IsRefURL reports whether url should be treated as an internal reference
// (the inverse of IsExternalURL, also excluding fragment-only and empty
// URLs which never resolve to a document).
func IsRefURL(url string) bool {
	if url == "" || strings.HasPrefix(url, "#") {
		return false
	}
	return !IsExternalURL(url)
}

// StripExtension trims a configured refs_extension suffix (e.g. ".md") off
// a raw link URL before it is resolved to a Key.
func StripExtension(url, ext string) string {
	if ext == "" {
		return url
	}
	return strings.TrimSuffix(url, ext)
}

// ResolveRef resolves a raw internal link URL, seen from document base,
// into the Key it references. ext is markdown.refs_extension; when
// non-empty it is stripped from url before resolution.
func ResolveRef(base Key, url, ext string) Key {
	return base.Join(StripExtension(url, ext))
}

// LinkURL renders the outward link URL for target (its full key),
// honoring markdown.refs_extension. WikiLinks never carry the extension
// (spec §6) and use the key as-is; pass ext="" for those call sites.
func LinkURL(target Key, ext string) string {
	return target.WithExtension(ext)
}
