package assets

import (
	"net/http"
	"path"
	"strings"
)

// mimeByExt covers the types the shell serves most; anything with an
// unrecognized extension falls back to content sniffing.
var mimeByExt = map[string]string{
	".bin":    "application/octet-stream",
	".css":    "text/css",
	".csv":    "text/csv",
	".html":   "text/html",
	".ico":    "image/vnd.microsoft.icon",
	".js":     "text/javascript",
	".json":   "application/json",
	".jsonld": "application/ld+json",
	".mjs":    "text/javascript",
	".rtf":    "application/rtf",
	".svg":    "image/svg+xml",
	".mp4":    "video/mp4",
	".png":    "image/png",
	".jpg":    "image/jpeg",
	".jpeg":   "image/jpeg",
	".gif":    "image/gif",
	".webp":   "image/webp",
	".wasm":   "application/wasm",
	".woff":   "font/woff",
	".woff2":  "font/woff2",
	".txt":    "text/plain",
}

// contentType picks the response content type: extension table first, content
// sniffing as the fallback. Sniffing cannot distinguish SVG from generic XML,
// so the extension always wins when known.
func contentType(name string, body []byte) string {
	if t, ok := mimeByExt[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return http.DetectContentType(body)
}
