// Package imagecache loads and holds decoded art0 images. Loading is
// asynchronous and deduplicated; Get is a non-blocking lookup and makes the
// cache an art0.ImageProvider.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp" // register decoder
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/phanxgames/art0"
)

// DefaultParallelism bounds concurrent decodes in Preload.
const DefaultParallelism = 4

// Config configures New.
type Config struct {
	// Convert turns a decoded image into the handle the engine draws, for
	// example an *ebiten.Image. nil keeps the decoded image.Image.
	Convert func(image.Image) art0.Image
	Logger  zerolog.Logger
}

// Cache maps image ids (paths within fsys) to decoded images.
type Cache struct {
	fsys    fs.FS
	convert func(image.Image) art0.Image
	log     zerolog.Logger

	mu     sync.RWMutex
	images map[string]art0.Image
	group  singleflight.Group

	loads atomic.Int64
}

// New creates an empty cache reading from fsys.
func New(fsys fs.FS, cfg Config) *Cache {
	convert := cfg.Convert
	if convert == nil {
		convert = func(img image.Image) art0.Image { return img }
	}
	return &Cache{
		fsys:    fsys,
		convert: convert,
		log:     cfg.Logger,
		images:  make(map[string]art0.Image),
	}
}

// Get returns the loaded image for id, or nil. It never blocks on I/O.
func (c *Cache) Get(id string) art0.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[id]
	if !ok {
		return nil
	}
	return img
}

func (c *Cache) lookup(id string) (art0.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[id]
	return img, ok
}

// Load returns the image for id, decoding it on first use. Concurrent loads
// of the same id share one decode.
func (c *Cache) Load(ctx context.Context, id string) (art0.Image, error) {
	if img, ok := c.lookup(id); ok {
		return img, nil
	}
	ch := c.group.DoChan(id, func() (any, error) {
		if img, ok := c.lookup(id); ok {
			return img, nil
		}
		img, err := c.decode(id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.images[id] = img
		c.mu.Unlock()
		return img, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(art0.Image), nil
	}
}

func (c *Cache) decode(id string) (art0.Image, error) {
	f, err := c.fsys.Open(id)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	defer f.Close()

	c.loads.Add(1)
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	img := c.convert(src)
	if img == nil {
		return nil, fmt.Errorf("convert %s: no image", id)
	}
	return img, nil
}

// Preload loads ids with at most parallelism decodes in flight. Failed
// images are logged and skipped so the rest still load; the returned error
// joins every failure. Only context cancellation stops it early.
func (c *Cache) Preload(ctx context.Context, ids []string, parallelism int) error {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if _, err := c.Load(gctx, id); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				c.log.Warn().
					Err(err).
					Str("event", "imagecache.load_failed").
					Str("image", id).
					Msg("image skipped")
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// Retain drops every image whose id is not in keep.
func (c *Cache) Retain(keep []string) {
	set := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		set[id] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.images {
		if _, ok := set[id]; !ok {
			delete(c.images, id)
		}
	}
}

// Purge drops every loaded image.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.images)
}

// Len returns the number of loaded images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Decodes returns how many files have been decoded since creation.
func (c *Cache) Decodes() int64 { return c.loads.Load() }
