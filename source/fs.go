package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/transform"

	"github.com/assetpick/assetpick/internal/imgops"
	"github.com/assetpick/assetpick/permission"
)

// DirSource serves the image files of one directory as a single album.
//
// Asset IDs are the file names within the directory; listing order is
// name-sorted and stable, so pagination is deterministic. The directory
// is scanned once, on first use.
type DirSource struct {
	dir       string
	albumName string

	mu      sync.Mutex
	scanned bool
	assets  []Asset
}

// NewDirSource creates a source over the given directory. The album is
// named after the directory's base name.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		dir:       dir,
		albumName: filepath.Base(dir),
	}
}

// imageExts are the file extensions DirSource recognizes, matching the
// decoders registered by imgops.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// scan reads the directory listing once and caches the asset handles.
func (s *DirSource) scan() ([]Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanned {
		return s.assets, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", s.dir, err)
	}

	var assets []Asset
	for _, entry := range entries {
		if entry.IsDir() || !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		f, err := os.Open(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			// Unreadable files are not assets.
			continue
		}

		assets = append(assets, Asset{
			ID:     entry.Name(),
			Width:  cfg.Width,
			Height: cfg.Height,
			Type:   MediaImage,
		})
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	s.assets = assets
	s.scanned = true
	return s.assets, nil
}

// Albums returns the single album backed by the directory.
func (s *DirSource) Albums(ctx context.Context) ([]Album, error) {
	assets, err := s.scan()
	if err != nil {
		return nil, err
	}
	return []Album{{ID: s.albumName, Name: s.albumName, Count: len(assets)}}, nil
}

// Assets returns one name-sorted page of the directory's images.
func (s *DirSource) Assets(ctx context.Context, albumID string, page, pageSize int) ([]Asset, error) {
	if page < 0 || pageSize <= 0 {
		return nil, fmt.Errorf("invalid page %d / pageSize %d", page, pageSize)
	}

	assets, err := s.scan()
	if err != nil {
		return nil, err
	}

	start := page * pageSize
	if start >= len(assets) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(assets) {
		end = len(assets)
	}

	out := make([]Asset, end-start)
	copy(out, assets[start:end])
	return out, nil
}

// Thumbnail decodes the asset and scales it so the long edge is at most
// size pixels. Images already within size are returned as decoded.
func (s *DirSource) Thumbnail(ctx context.Context, asset Asset, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid thumbnail size %d", size)
	}

	rc, err := s.Open(ctx, asset)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := imgops.Decode(rc)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= size && h <= size {
		return img, nil
	}

	if w >= h {
		h = h * size / w
		w = size
	} else {
		w = w * size / h
		h = size
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return transform.Resize(img, w, h, transform.Linear), nil
}

// PlaceholderColor returns the asset's average color for use as a grid
// placeholder while the thumbnail loads. Not part of the AssetSource
// contract.
func (s *DirSource) PlaceholderColor(ctx context.Context, asset Asset) (*imgops.ColorResult, error) {
	// A small thumbnail is plenty for an average.
	img, err := s.Thumbnail(ctx, asset, 64)
	if err != nil {
		return nil, err
	}
	return imgops.AverageColor(img)
}

// Open streams the original file.
func (s *DirSource) Open(ctx context.Context, asset Asset) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, asset.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset %s: %w", asset.ID, err)
	}
	return f, nil
}

// CheckPermission maps directory accessibility onto the permission
// model: an unreadable directory due to filesystem permissions is
// Denied; any other stat failure is a checker error, which the gate
// reports as unavailable.
func (s *DirSource) CheckPermission(ctx context.Context) (permission.State, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return permission.Denied, nil
		}
		return permission.Denied, fmt.Errorf("failed to stat %s: %w", s.dir, err)
	}
	if !info.IsDir() {
		return permission.Denied, fmt.Errorf("%s is not a directory", s.dir)
	}
	if _, err := os.ReadDir(s.dir); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return permission.Denied, nil
		}
		return permission.Denied, fmt.Errorf("failed to read %s: %w", s.dir, err)
	}
	return permission.Granted, nil
}
