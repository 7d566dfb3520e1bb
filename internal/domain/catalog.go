package domain

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// CatalogRow is the raw column shape read from the image catalog.
type CatalogRow struct {
	ID                int64
	Path              string
	RepresentativeExt *string
	Width             *int
	Height            *int
	Rotation          *int
}

// CatalogImage is one image entry in the gallery catalog.
type CatalogImage struct {
	ID                int64
	Path              string
	RepresentativeExt string
	Width             int
	Height            int
	Rotation          int
}

// NewCatalogImage validates a catalog row and converts it into a CatalogImage.
func NewCatalogImage(row CatalogRow) (CatalogImage, error) {
	if row.ID <= 0 {
		return CatalogImage{}, fmt.Errorf("%w: id %d", ErrInvalidRow, row.ID)
	}
	p := strings.TrimSpace(row.Path)
	if p == "" {
		return CatalogImage{}, fmt.Errorf("%w: id %d has no path", ErrInvalidRow, row.ID)
	}
	img := CatalogImage{ID: row.ID, Path: p}
	if row.RepresentativeExt != nil {
		img.RepresentativeExt = strings.TrimSpace(*row.RepresentativeExt)
	}
	if row.Width != nil {
		img.Width = *row.Width
	}
	if row.Height != nil {
		img.Height = *row.Height
	}
	if row.Rotation != nil {
		img.Rotation = *row.Rotation
	}
	return img, nil
}

// Ext returns the lower-cased extension of the catalog path without the dot.
func (i CatalogImage) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(i.Path), "."))
}

// IsPicture reports whether the catalog path has one of the picture extensions.
func (i CatalogImage) IsPicture(pictureExts []string) bool {
	ext := i.Ext()
	for _, e := range pictureExts {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}

// IsMimetype reports whether the entry is a non-image asset (video, document)
// without a representative picture. Such entries only ever show a mimetype
// icon and have no derivatives.
func (i CatalogImage) IsMimetype(pictureExts []string) bool {
	return !i.IsPicture(pictureExts) && i.RepresentativeExt == ""
}

// SourcePath is the catalog-relative path of the picture derivatives are built
// from: the file itself, or its representative under pwg_representative/.
func (i CatalogImage) SourcePath(pictureExts []string) string {
	if i.IsPicture(pictureExts) || i.RepresentativeExt == "" {
		return i.Path
	}
	dir, file := path.Split(i.Path)
	name := strings.TrimSuffix(file, path.Ext(file))
	return dir + "pwg_representative/" + name + "." + i.RepresentativeExt
}

// HasSize reports whether the catalog knows the picture dimensions.
func (i CatalogImage) HasSize() bool {
	return i.Width > 0 && i.Height > 0
}

// DisplaySize returns the dimensions after applying rotation.
func (i CatalogImage) DisplaySize() Size {
	if i.Rotation%2 != 0 {
		return Size{Width: i.Height, Height: i.Width}
	}
	return Size{Width: i.Width, Height: i.Height}
}

// RangeFilters narrows a catalog scan. Every bound is optional.
type RangeFilters struct {
	MinRating        *float64
	MaxRating        *float64
	MinHits          *int
	MaxHits          *int
	MinRatio         *float64
	MaxRatio         *float64
	MaxLevel         *int
	MinDateAvailable *time.Time
	MaxDateAvailable *time.Time
	MinDateCreated   *time.Time
	MaxDateCreated   *time.Time
}

// CatalogFilter is what the catalog store needs to select a page of rows.
type CatalogFilter struct {
	Ranges   RangeFilters
	ImageIDs []int64
}
