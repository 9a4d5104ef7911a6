package assets

import (
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/ui-runtime/errors"
)

//go:embed index.html
var indexTemplate string

//go:embed loader.js
var loaderJS string

// Scheme is the custom protocol the window shell routes through the handler.
const Scheme = "app://"

// Request is one asset request from the window shell.
type Request struct {
	// URI is the full request target, scheme included.
	URI string
}

// Response is the handler's answer. Body is owned by the caller.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Handler serves the index document and sandboxed assets for a window shell.
// There is no network listener; the shell calls Handle directly for every
// request on the custom scheme.
type Handler struct {
	// AssetRoot is the directory assets are served from. Empty means the
	// current working directory.
	AssetRoot string

	// CustomHead is injected at the template's head marker. Ignored when
	// CustomIndex is set.
	CustomHead string

	// CustomIndex replaces the embedded index template entirely. The module
	// loader is still injected before the closing body tag.
	CustomIndex string

	// RootName is the element id the module loader attaches to.
	RootName string
}

// Handle resolves one request. Requests that escape the asset root return a
// forbidden error; missing assets return a not-found error. Both carry the
// asset phase so the shell can map them to protocol status codes.
func (h *Handler) Handle(req Request) (*Response, error) {
	path := strings.TrimPrefix(req.URI, Scheme)

	// Every asset reference resolves relative to the index document.
	trimmed := strings.TrimPrefix(path, "index.html")
	trimmed = strings.TrimPrefix(trimmed, "/")

	switch trimmed {
	case "":
		return h.index(), nil
	case "loader.js":
		return &Response{
			Status:      http.StatusOK,
			ContentType: "text/javascript",
			Body:        []byte(loaderJS),
		}, nil
	}
	return h.asset(trimmed)
}

// index renders the document the shell boots from, with the module loader
// injected.
func (h *Handler) index() *Response {
	var rendered string
	if h.CustomIndex != "" {
		// A custom index is trusted as-is; only the loader is injected, at
		// the closing body tag.
		rendered = strings.Replace(h.CustomIndex, "</body>", h.moduleLoader()+"</body>", 1)
	} else {
		rendered = strings.Replace(indexTemplate, "<!-- CUSTOM HEAD -->", h.CustomHead, 1)
		rendered = strings.Replace(rendered, "<!-- MODULE LOADER -->", h.moduleLoader(), 1)
	}
	return &Response{
		Status:      http.StatusOK,
		ContentType: "text/html",
		Body:        []byte(rendered),
	}
}

// moduleLoader is the script that wires the document's root element to the
// shell's message channel.
func (h *Handler) moduleLoader() string {
	return fmt.Sprintf(`
<script type="module">
    import { attach } from "./loader.js";
    attach(%q);
</script>
`, h.RootName)
}

// asset serves one file from under the asset root. Symlinks are resolved
// before the containment check so a link cannot smuggle a path outside the
// sandbox.
func (h *Handler) asset(trimmed string) (*Response, error) {
	root := h.AssetRoot
	if root == "" {
		root = "."
	}
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAsset, errors.KindInvalidInput, err,
			"asset root cannot be resolved")
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAsset, errors.KindInvalidInput, err,
			"asset root cannot be resolved")
	}

	joined := filepath.Join(root, filepath.FromSlash(trimmed))
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.PhaseAsset, errors.KindNotFound).
				Detail("asset %q not found", trimmed).Build()
		}
		return nil, errors.Wrap(errors.PhaseAsset, errors.KindInvalidInput, err,
			"asset path cannot be resolved")
	}

	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return nil, errors.Forbidden(trimmed)
	}

	body, err := os.ReadFile(resolved)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAsset, errors.KindNotFound, err,
			"asset cannot be read")
	}

	return &Response{
		Status:      http.StatusOK,
		ContentType: contentType(trimmed, body),
		Body:        body,
	}, nil
}
