package artwork

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/framecast/framecast/filesystem"
	"github.com/framecast/framecast/frame"
	"github.com/framecast/framecast/where"
	"github.com/metafates/gache"
)

// ErrNoFrames is returned when a directory holds no frame artwork.
var ErrNoFrames = errors.New("no frames found")

// CountFrames returns the length of the contiguous sequence output_0001.jpg, output_0002.jpg, ... in dir.
func CountFrames(dir string) (int, error) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read frames dir: %w", err)
	}

	present := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if i, ok := frame.Parse(entry.Name()); ok {
			present[i] = struct{}{}
		}
	}

	n := 0
	for {
		if _, ok := present[n+1]; !ok {
			break
		}
		n++
	}

	if n == 0 {
		return 0, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}
	return n, nil
}

// CachedCountFrames is CountFrames remembered per directory for lifetime.
func CachedCountFrames(dir string, lifetime time.Duration) (int, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}

	cacher := gache.New[map[string]int](&gache.Options{
		Path:       where.FrameCounts(),
		Lifetime:   lifetime,
		FileSystem: &filesystem.GacheFs{},
	})

	counts, expired, err := cacher.Get()
	if err == nil && !expired {
		if n, ok := counts[dir]; ok {
			return n, nil
		}
	}
	if counts == nil || expired {
		counts = make(map[string]int)
	}

	n, err := CountFrames(dir)
	if err != nil {
		return 0, err
	}

	counts[dir] = n
	_ = cacher.Set(counts)
	return n, nil
}
