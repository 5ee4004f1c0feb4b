package artwork

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/framecast/framecast/filesystem"
	"github.com/framecast/framecast/network"
	"github.com/framecast/framecast/util"
)

// ErrNoSource is returned when no frames base is configured.
var ErrNoSource = errors.New("frames base is not set")

// Loader warms a single frame so the OS can display it without waiting.
type Loader interface {
	Load(ctx context.Context, ref string) error
}

// Source is a parsed frames base: either a remote origin or a local directory.
type Source struct {
	Remote *url.URL
	Dir    string
}

// ParseSource interprets base as an http(s) URL, a file:// URL or a local path.
func ParseSource(base string) (Source, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return Source{}, ErrNoSource
	}

	u, err := url.Parse(base)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			if u.Host == "" {
				return Source{}, fmt.Errorf("frames base %q has no host", base)
			}
			return Source{Remote: u}, nil
		case "file":
			return Source{Dir: filepath.FromSlash(u.Path)}, nil
		}
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return Source{}, err
	}
	return Source{Dir: abs}, nil
}

// IsRemote reports whether frames are fetched over HTTP.
func (s Source) IsRemote() bool {
	return s.Remote != nil
}

func (s Source) String() string {
	if s.IsRemote() {
		return s.Remote.String()
	}
	return s.Dir
}

// NewLoader returns the loader matching the source.
func NewLoader(src Source, store *Store) Loader {
	if src.IsRemote() {
		return &HTTPLoader{Base: src.Remote, Store: store, Client: network.Client}
	}
	return &FileLoader{Dir: src.Dir}
}

// HTTPLoader downloads frames into a Store.
type HTTPLoader struct {
	Base   *url.URL
	Store  *Store
	Client *http.Client
}

func (l *HTTPLoader) Load(ctx context.Context, ref string) error {
	if l.Store.Has(ref) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Base.JoinPath(ref).String(), nil)
	if err != nil {
		return err
	}

	client := l.Client
	if client == nil {
		client = network.Client
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("fetch %s: %s", ref, resp.Status)
	}

	return l.Store.Write(ref, resp.Body)
}

// FileLoader reads frames from a local directory, leaving them in the page cache.
type FileLoader struct {
	Dir string
}

func (l *FileLoader) Load(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := filesystem.API().Open(filepath.Join(l.Dir, filepath.Base(ref)))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(io.Discard, f)
	return err
}
