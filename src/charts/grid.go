package charts

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// vgPanel is one sub-figure awaiting composition into a multi-panel image.
type vgPanel struct {
	plot *plot.Plot
	w, h vg.Length
}

func (v *vgPanel) image() (image.Image, error) {
	return plotImage(v.plot, v.w, v.h)
}

// tileVertical stacks panels top to bottom into one image.
func tileVertical(panels []*vgPanel) (image.Image, error) {
	rows := make([][]*vgPanel, len(panels))
	for i, p := range panels {
		rows[i] = []*vgPanel{p}
	}
	return tileGrid(rows)
}

// tileGrid composes a row-major grid of panels into a single image on a
// white background. A nil panel leaves its cell blank. Cell sizes come
// from the largest panel per row/column.
func tileGrid(rows [][]*vgPanel) (image.Image, error) {
	if len(rows) == 0 {
		return nil, errors.New("no panels to compose")
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	imgs := make([][]image.Image, len(rows))
	rowH := make([]int, len(rows))
	colW := make([]int, cols)
	for i, row := range rows {
		imgs[i] = make([]image.Image, len(row))
		for j, p := range row {
			if p == nil {
				continue
			}
			img, err := p.image()
			if err != nil {
				return nil, errors.Wrapf(err, "panel %d,%d", i, j)
			}
			imgs[i][j] = img
			b := img.Bounds()
			if b.Dy() > rowH[i] {
				rowH[i] = b.Dy()
			}
			if b.Dx() > colW[j] {
				colW[j] = b.Dx()
			}
		}
	}

	totalW, totalH := 0, 0
	for _, w := range colW {
		totalW += w
	}
	for _, h := range rowH {
		totalH += h
	}
	out := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	y := 0
	for i, row := range imgs {
		x := 0
		for j, img := range row {
			if img != nil {
				r := image.Rect(x, y, x+img.Bounds().Dx(), y+img.Bounds().Dy())
				draw.Draw(out, r, img, img.Bounds().Min, draw.Over)
			}
			x += colW[j]
		}
		y += rowH[i]
	}
	return out, nil
}
