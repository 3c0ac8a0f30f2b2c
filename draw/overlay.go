package draw

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Overlay is the debug view: the initial state texture, the current state
// texture and the seed texture, shown side by side in the top-left corner.
type Overlay struct {
	Initial   *image.RGBA
	Current   *image.RGBA
	Seeds     *image.RGBA
	PanelSize int
}

// Panels returns the overlay images in display order.
func (o *Overlay) Panels() []*image.RGBA {
	return []*image.RGBA{o.Initial, o.Current, o.Seeds}
}

// PanelRect returns the screen rectangle of panel i.
func (o *Overlay) PanelRect(i int) image.Rectangle {
	return image.Rect(i*o.PanelSize, 0, (i+1)*o.PanelSize, o.PanelSize)
}

// composite scales every panel onto dst with nearest-neighbour sampling so
// individual texels stay crisp.
func (o *Overlay) composite(dst *image.RGBA) {
	for i, p := range o.Panels() {
		if p == nil {
			continue
		}
		r := o.PanelRect(i).Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		xdraw.NearestNeighbor.Scale(dst, o.PanelRect(i), p, p.Bounds(), xdraw.Src, nil)
	}
}
