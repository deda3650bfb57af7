// Package catalog scans an art0 asset tree.
//
// Layout, relative to the asset root:
//
//	zones/<style>/v0/<res>/<color>-<n>[_<v>].png   res is "1680" or "1680px"
//	cadre/<frame>.png
//	intro/<name>@<res>.png
//
// All returned image ids are slash-separated paths relative to the root and
// can be opened from the same fs.FS.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/phanxgames/art0"
)

// PreferredResolution is chosen when a style offers it.
const PreferredResolution = 1680

// NoFrame is the frame name meaning "no overlay".
const NoFrame = "none"

var (
	// ErrStyleNotFound is returned for a style with no usable resolution.
	ErrStyleNotFound = errors.New("style not found")
	// ErrResolutionNotFound is returned for a resolution the style lacks.
	ErrResolutionNotFound = errors.New("resolution not available")
)

var zoneFile = regexp.MustCompile(`(?i)^([a-z]+)-(\d+)(_\d+)?\.png$`)

// Catalog reads the asset tree on every call, so new files show up without
// a restart.
type Catalog struct {
	fsys       fs.FS
	categories []art0.Category
}

// New returns a catalog over fsys using the default category order.
func New(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys, categories: art0.DefaultCategories}
}

// Open returns a catalog over the directory dir.
func Open(dir string) *Catalog {
	return New(os.DirFS(dir))
}

// FS returns the asset file system.
func (c *Catalog) FS() fs.FS { return c.fsys }

// Categories returns the category order.
func (c *Catalog) Categories() []art0.Category { return c.categories }

// readDir lists dir, treating a missing directory as empty.
func (c *Catalog) readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(c.fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	return entries, nil
}

// parseResolution accepts "1680" and "1680px".
func parseResolution(name string) (int, bool) {
	name = strings.TrimSuffix(name, "px")
	n, err := strconv.Atoi(name)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Styles maps every style to its sorted resolutions. Styles without any
// resolution directory are left out.
func (c *Catalog) Styles() (map[string][]int, error) {
	entries, err := c.readDir("zones")
	if err != nil {
		return nil, err
	}
	styles := make(map[string][]int)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		resEntries, err := c.readDir(path.Join("zones", e.Name(), "v0"))
		if err != nil {
			return nil, err
		}
		var res []int
		for _, r := range resEntries {
			if !r.IsDir() {
				continue
			}
			if n, ok := parseResolution(r.Name()); ok && !slices.Contains(res, n) {
				res = append(res, n)
			}
		}
		if len(res) > 0 {
			slices.Sort(res)
			styles[e.Name()] = res
		}
	}
	return styles, nil
}

// StyleNames returns the style names in sorted order.
func (c *Catalog) StyleNames() ([]string, error) {
	styles, err := c.Styles()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Resolutions returns the sorted resolutions of style.
func (c *Catalog) Resolutions(style string) ([]int, error) {
	styles, err := c.Styles()
	if err != nil {
		return nil, err
	}
	res, ok := styles[style]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, style)
	}
	return res, nil
}

// Resolve picks a resolution for style: want if available, otherwise the
// lowest the style offers.
func (c *Catalog) Resolve(style string, want int) (int, error) {
	res, err := c.Resolutions(style)
	if err != nil {
		return 0, err
	}
	if slices.Contains(res, want) {
		return want, nil
	}
	return res[0], nil
}

// Images returns the image ids of style at resolution grouped by category.
// Only known categories are included; each list is sorted.
func (c *Catalog) Images(style string, resolution int) (map[art0.Category][]string, error) {
	res, err := c.Resolutions(style)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(res, resolution) {
		return nil, fmt.Errorf("%w: %s at %d", ErrResolutionNotFound, style, resolution)
	}

	base := path.Join("zones", style, "v0")
	dir := path.Join(base, strconv.Itoa(resolution))
	if _, err := fs.Stat(c.fsys, dir); err != nil {
		dir = path.Join(base, strconv.Itoa(resolution)+"px")
	}
	entries, err := c.readDir(dir)
	if err != nil {
		return nil, err
	}

	images := make(map[art0.Category][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := zoneFile.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		cat := art0.Category(strings.ToLower(m[1]))
		if !slices.Contains(c.categories, cat) {
			continue
		}
		images[cat] = append(images[cat], path.Join(dir, e.Name()))
	}
	for _, ids := range images {
		slices.Sort(ids)
	}
	return images, nil
}

// Frames maps frame names to image ids. NoFrame is always present with an
// empty id.
func (c *Catalog) Frames() (map[string]string, error) {
	entries, err := c.readDir("cadre")
	if err != nil {
		return nil, err
	}
	frames := map[string]string{NoFrame: ""}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".png")
		if e.IsDir() || !ok {
			continue
		}
		frames[name] = path.Join("cadre", e.Name())
	}
	return frames, nil
}

// Intros maps resolution to intro name to image id, from files named
// <name>@<res>.png.
func (c *Catalog) Intros() (map[int]map[string]string, error) {
	entries, err := c.readDir("intro")
	if err != nil {
		return nil, err
	}
	intros := make(map[int]map[string]string)
	for _, e := range entries {
		stem, ok := strings.CutSuffix(e.Name(), ".png")
		if e.IsDir() || !ok {
			continue
		}
		name, resStr, ok := strings.Cut(stem, "@")
		if !ok {
			continue
		}
		res, err := strconv.Atoi(resStr)
		if err != nil {
			continue
		}
		if intros[res] == nil {
			intros[res] = make(map[string]string)
		}
		intros[res][name] = path.Join("intro", e.Name())
	}
	return intros, nil
}

// Intro returns the id of intro name at resolution.
func (c *Catalog) Intro(name string, resolution int) (string, bool) {
	intros, err := c.Intros()
	if err != nil {
		return "", false
	}
	id, ok := intros[resolution][name]
	return id, ok
}

// Selection is a fully resolved style choice.
type Selection struct {
	Style      string
	Resolution int
	Images     map[art0.Category][]string
	Background string // intro image id, empty for none
	Frame      string // frame image id, empty for none
}

// IDs returns every image id the selection references.
func (s Selection) IDs() []string {
	var ids []string
	for _, list := range s.Images {
		ids = append(ids, list...)
	}
	if s.Background != "" {
		ids = append(ids, s.Background)
	}
	if s.Frame != "" {
		ids = append(ids, s.Frame)
	}
	slices.Sort(ids)
	return ids
}

// Select resolves style (or the first style when empty), the resolution,
// the intro background and the frame overlay. Unknown intro or frame names
// resolve to none.
func (c *Catalog) Select(style string, resolution int, intro, frame string) (Selection, error) {
	if style == "" {
		names, err := c.StyleNames()
		if err != nil {
			return Selection{}, err
		}
		if len(names) == 0 {
			return Selection{}, fmt.Errorf("%w: no styles under zones/", ErrStyleNotFound)
		}
		style = names[0]
	}
	if resolution <= 0 {
		resolution = PreferredResolution
	}
	res, err := c.Resolve(style, resolution)
	if err != nil {
		return Selection{}, err
	}
	images, err := c.Images(style, res)
	if err != nil {
		return Selection{}, err
	}

	sel := Selection{Style: style, Resolution: res, Images: images}
	if intro != "" {
		sel.Background, _ = c.Intro(intro, res)
	}
	if frame != "" && frame != NoFrame {
		frames, err := c.Frames()
		if err != nil {
			return Selection{}, err
		}
		sel.Frame = frames[frame]
	}
	return sel, nil
}
