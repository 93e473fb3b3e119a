// Package charts renders aggregated experiment data to PNG files. Each
// renderer owns its figure, writes one file and returns; empty groups are
// skipped with a log message instead of failing the run.
package charts

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = vg.Points(10)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	return p
}

func savePlot(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create dir for %s", path)
	}
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	log.Infof("plot saved: %s", filepath.Base(path))
	return nil
}

// plotImage renders a plot to an in-memory image, for tiling several
// panels into one file.
func plotImage(p *plot.Plot, w, h vg.Length) (image.Image, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, errors.Wrap(err, "render panel")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "render panel")
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "decode panel")
	}
	return img, nil
}

func writePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create dir for %s", path)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errors.Wrapf(err, "png encode %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	log.Infof("plot saved: %s", filepath.Base(path))
	return nil
}
