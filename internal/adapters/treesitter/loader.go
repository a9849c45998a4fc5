//go:build cgo

package treesitter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// DynamicLoader resolves tree-sitter grammars from shared libraries (.so on
// Linux, .dylib on macOS) using purego. Lean builds use it to pick up a
// python grammar installed out-of-band instead of compiling one in.
type DynamicLoader struct {
	searchPaths []string
	mu          sync.Mutex
	loaded      map[string]*tree_sitter.Language
	handles     []uintptr
}

// NewDynamicLoader creates a loader that searches the given directories in
// order; first match wins.
func NewDynamicLoader(searchPaths []string) *DynamicLoader {
	return &DynamicLoader{
		searchPaths: searchPaths,
		loaded:      make(map[string]*tree_sitter.Language),
	}
}

// LibExtension returns the shared library extension for the current platform.
func LibExtension() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}

// cSymbolName returns the exported C entry point for a grammar,
// tree_sitter_{name} by upstream convention.
func cSymbolName(lang string) string {
	return "tree_sitter_" + strings.ReplaceAll(lang, "-", "_")
}

// LoadGrammar loads the grammar for lang from the first matching shared
// library. Results are cached for the loader's lifetime.
func (dl *DynamicLoader) LoadGrammar(lang string) (*tree_sitter.Language, error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if cached, ok := dl.loaded[lang]; ok {
		return cached, nil
	}

	soPath := dl.grammarPathLocked(lang)
	if soPath == "" {
		return nil, fmt.Errorf("grammar %q: shared library not found in search paths", lang)
	}

	handle, err := purego.Dlopen(soPath, purego.RTLD_LAZY)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: dlopen %s: %w", lang, soPath, err)
	}
	dl.handles = append(dl.handles, handle)

	var langFunc func() uintptr
	purego.RegisterLibFunc(&langFunc, handle, cSymbolName(lang))

	ptr := langFunc()
	if ptr == 0 {
		return nil, fmt.Errorf("grammar %q: %s() returned null", lang, cSymbolName(lang))
	}

	// Convert uintptr from C (purego) to unsafe.Pointer without triggering
	// go vet's unsafeptr check. Safe because ptr is a static TSLanguage*
	// from the grammar .so, not a Go-managed pointer the GC could move.
	language := tree_sitter.NewLanguage(*(*unsafe.Pointer)(unsafe.Pointer(&ptr)))
	dl.loaded[lang] = language
	return language, nil
}

// GrammarPath returns the shared library path that would be used for lang,
// or "" when none is installed.
func (dl *DynamicLoader) GrammarPath(lang string) string {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return dl.grammarPathLocked(lang)
}

func (dl *DynamicLoader) grammarPathLocked(lang string) string {
	ext := LibExtension()
	for _, dir := range dl.searchPaths {
		candidate := filepath.Join(dir, lang+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// SearchPaths returns the configured search paths.
func (dl *DynamicLoader) SearchPaths() []string {
	return dl.searchPaths
}
