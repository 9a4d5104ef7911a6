// Package assets implements the custom-scheme asset protocol of a window
// shell: it serves the boot index document with the module loader injected,
// the loader script itself, and files from a sandboxed asset root.
//
// The package is transport-free. The embedding shell owns the protocol
// registration and calls Handle for each request; a Response maps directly
// onto whatever response type the shell's webview wants.
package assets
