// Package derivative locates custom derivative files in the gallery cache and
// builds the URLs that serve them.
package derivative

import (
	"path"
	"strings"

	"customderiv/internal/domain"
	"customderiv/internal/sizespec"
)

const (
	customPrefix = "cu"
	scriptName   = "i.php"
)

// Resolver maps (spec, source image) pairs to cache paths and URLs.
type Resolver struct {
	dataDir     string
	baseURL     string
	pictureExts []string
}

// NewResolver returns a resolver for a gallery whose cache lives under
// dataDir (relative to the gallery root) and which is served at baseURL.
func NewResolver(dataDir, baseURL string, pictureExts []string) *Resolver {
	dataDir = strings.Trim(strings.ReplaceAll(dataDir, "\\", "/"), "/")
	if dataDir == "" {
		dataDir = "_data"
	}
	if len(pictureExts) == 0 {
		pictureExts = []string{"jpg", "jpeg", "png", "gif"}
	}
	return &Resolver{
		dataDir:     dataDir,
		baseURL:     strings.TrimRight(baseURL, "/"),
		pictureExts: pictureExts,
	}
}

// Resolve computes the derivative location. When the source already fits in
// the requested size the gallery serves the source itself and the result has
// kind original.
func (r *Resolver) Resolve(spec domain.SizeSpec, img domain.CatalogImage, opts domain.URLOptions) domain.Derivative {
	src := cleanRel(img.SourcePath(r.pictureExts))

	if img.HasSize() && img.DisplaySize().Fits(spec.Size) {
		return domain.Derivative{
			Path: src,
			Kind: domain.DerivativeKindOriginal,
			URL:  r.baseURL + "/" + src,
		}
	}

	dir, file := path.Split(src)
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	loc := dir + name + "-" + customPrefix + "_" + sizespec.Identifier(spec) + ext

	cachePath := r.dataDir + "/i/" + loc
	d := domain.Derivative{Path: cachePath, Kind: domain.DerivativeKindCustom}
	switch opts.Style {
	case domain.URLStyleDirect:
		d.URL = r.baseURL + "/" + cachePath
	default:
		d.URL = r.baseURL + "/" + scriptName + "?/" + loc
	}
	return d
}

func cleanRel(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimLeft(p, "/")
}

var _ domain.DerivativeResolver = (*Resolver)(nil)
