package artwork

import (
	"net/url"
	"path/filepath"
)

// Resolver turns a frame reference into the URL handed to the OS media session.
type Resolver struct {
	src   Source
	store *Store
}

func NewResolver(src Source, store *Store) *Resolver {
	return &Resolver{src: src, store: store}
}

// URL prefers a local copy: remote frames resolve to the stored file once downloaded.
func (r *Resolver) URL(ref string) string {
	if !r.src.IsRemote() {
		return fileURL(filepath.Join(r.src.Dir, filepath.Base(ref)))
	}
	if r.store != nil && r.store.Has(ref) {
		return fileURL(r.store.Path(ref))
	}
	return r.src.Remote.JoinPath(ref).String()
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
