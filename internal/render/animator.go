// Package render turns an assembled dataset into an animation: one
// frame per timestep, one heat map panel per series.
package render

import (
	"fmt"
	"image"
	"image/color"
	colorpalette "image/color/palette"
	imgdraw "image/draw"
	"image/gif"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/simehaa/AlievPanfilovCPU/internal/config"
	"github.com/simehaa/AlievPanfilovCPU/internal/meshdata"
	"github.com/simehaa/AlievPanfilovCPU/internal/monitoring"
)

// paletteColors is the number of discrete colours in each heat map.
const paletteColors = 255

// colorBarFraction is the share of a panel's height given to its colour bar.
const colorBarFraction = 0.18

// Options controls frame geometry and styling.
type Options struct {
	FPS         float64
	PanelWidth  vg.Length
	PanelHeight vg.Length
	DPI         int
	Palette     string
	ColorBar    bool
}

// OptionsFromConfig reads animation settings from cfg.
func OptionsFromConfig(cfg *config.RenderConfig) Options {
	return Options{
		FPS:         cfg.GetFPS(),
		PanelWidth:  vg.Length(cfg.GetPanelWidthIn()) * vg.Inch,
		PanelHeight: vg.Length(cfg.GetPanelHeightIn()) * vg.Inch,
		DPI:         cfg.GetDPI(),
		Palette:     cfg.GetPalette(),
		ColorBar:    cfg.GetColorBar(),
	}
}

// newColorMap returns a fresh colour map for the named palette.
func newColorMap(name string) (palette.ColorMap, error) {
	switch name {
	case "blackbody":
		return moreland.BlackBody(), nil
	case "kindlmann":
		return moreland.Kindlmann(), nil
	case "bluered":
		return moreland.SmoothBlueRed(), nil
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

// colorList implements palette.Palette.
type colorList []color.Color

func (l colorList) Colors() []color.Color { return l }

// sampledPalette evaluates cm at n evenly spaced values over its range,
// clamped so rounding never steps outside [Min, Max].
func sampledPalette(cm palette.ColorMap, n int) palette.Palette {
	lo, hi := cm.Min(), cm.Max()
	out := make(colorList, n)
	for i := range out {
		v := lo + (hi-lo)*float64(i)/float64(n-1)
		v = math.Min(math.Max(v, lo), hi)
		c, err := cm.At(v)
		if err != nil {
			c = color.Black
		}
		out[i] = c
	}
	return out
}

// Animator renders dataset frames. Colour ranges are fixed per series
// over the whole run so that frames are comparable.
type Animator struct {
	opts Options
}

// NewAnimator returns an Animator using opts.
func NewAnimator(opts Options) *Animator {
	return &Animator{opts: opts}
}

// layout places series on a grid: fields are columns, slices are rows.
type layout struct {
	rows, cols int
	cell       map[meshdata.Key][2]int // key -> {row, col}
}

func newLayout(keys []meshdata.Key) layout {
	fieldCol := map[meshdata.Field]int{}
	sliceRow := map[meshdata.Slice]int{}
	// keys arrive ordered by field then slice
	for _, k := range keys {
		if _, ok := fieldCol[k.Field]; !ok {
			fieldCol[k.Field] = len(fieldCol)
		}
	}
	for _, s := range []meshdata.Slice{meshdata.SliceNone, meshdata.SliceXY, meshdata.SliceXZ} {
		for _, k := range keys {
			if k.Slice == s {
				sliceRow[s] = len(sliceRow)
				break
			}
		}
	}

	l := layout{rows: len(sliceRow), cols: len(fieldCol), cell: make(map[meshdata.Key][2]int)}
	for _, k := range keys {
		l.cell[k] = [2]int{sliceRow[k.Slice], fieldCol[k.Field]}
	}
	return l
}

// seriesRange returns the smallest and largest sample over every frame of
// s. A constant series gets a unit-wide range centred on its value.
func seriesRange(s meshdata.Series) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < s.Len(); i++ {
		glo, ghi := s.Grid(i).Range()
		lo = math.Min(lo, glo)
		hi = math.Max(hi, ghi)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

// gridXYZ adapts a Grid to plotter.GridXYZ. Row 0 is drawn at the bottom.
type gridXYZ struct {
	g *meshdata.Grid
}

func (x gridXYZ) Dims() (c, r int)   { return x.g.Cols(), x.g.Rows() }
func (x gridXYZ) Z(c, r int) float64 { return x.g.At(r, c) }
func (x gridXYZ) X(c int) float64    { return float64(c) }
func (x gridXYZ) Y(r int) float64    { return float64(r) }

// frameRenderer holds the per-run state shared by all frames.
type frameRenderer struct {
	opts   Options
	ds     *meshdata.Dataset
	layout layout
	ranges map[meshdata.Key][2]float64
	maps   map[meshdata.Key]palette.ColorMap
	pals   map[meshdata.Key]palette.Palette
}

func (a *Animator) prepare(ds *meshdata.Dataset) (*frameRenderer, error) {
	keys := ds.Keys()
	fr := &frameRenderer{
		opts:   a.opts,
		ds:     ds,
		layout: newLayout(keys),
		ranges: make(map[meshdata.Key][2]float64, len(keys)),
		maps:   make(map[meshdata.Key]palette.ColorMap, len(keys)),
		pals:   make(map[meshdata.Key]palette.Palette, len(keys)),
	}
	for _, k := range keys {
		s, _ := ds.Series(k)
		lo, hi := seriesRange(s)
		cm, err := newColorMap(a.opts.Palette)
		if err != nil {
			return nil, err
		}
		cm.SetMin(lo)
		cm.SetMax(hi)
		fr.ranges[k] = [2]float64{lo, hi}
		fr.maps[k] = cm
		fr.pals[k] = sampledPalette(cm, paletteColors)
	}
	return fr, nil
}

// RenderFrame draws frame i of ds.
func (a *Animator) RenderFrame(ds *meshdata.Dataset, i int) (image.Image, error) {
	if i < 0 || i >= ds.FrameCount() {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", i, ds.FrameCount())
	}
	fr, err := a.prepare(ds)
	if err != nil {
		return nil, err
	}
	return fr.render(i)
}

func (fr *frameRenderer) render(i int) (image.Image, error) {
	w := fr.opts.PanelWidth * vg.Length(fr.layout.cols)
	h := fr.opts.PanelHeight * vg.Length(fr.layout.rows)
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(fr.opts.DPI))
	dc := draw.New(c)

	tiles := draw.Tiles{
		Rows: fr.layout.rows,
		Cols: fr.layout.cols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}

	frame := fr.ds.Frame(i)
	for _, k := range fr.ds.Keys() {
		pos := fr.layout.cell[k]
		panel := tiles.At(dc, pos[1], pos[0])
		if err := fr.drawPanel(panel, k, frame[k], i); err != nil {
			return nil, fmt.Errorf("panel %s: %w", k, err)
		}
	}
	return c.Image(), nil
}

func (fr *frameRenderer) drawPanel(dc draw.Canvas, k meshdata.Key, g *meshdata.Grid, i int) error {
	rng := fr.ranges[k]

	p := plot.New()
	p.Title.Text = k.String() + " mesh"
	if ts, ok := fr.ds.Timestamp(i); ok {
		p.Title.Text += fmt.Sprintf("  t = %g", ts)
	}
	hm := plotter.NewHeatMap(gridXYZ{g: g}, fr.pals[k])
	hm.Min, hm.Max = rng[0], rng[1]
	p.Add(hm)

	if !fr.opts.ColorBar {
		p.Draw(dc)
		return nil
	}

	split := dc.Min.Y + (dc.Max.Y-dc.Min.Y)*colorBarFraction
	heat := draw.Canvas{Canvas: dc.Canvas, Rectangle: vg.Rectangle{
		Min: vg.Point{X: dc.Min.X, Y: split},
		Max: dc.Max,
	}}
	bar := draw.Canvas{Canvas: dc.Canvas, Rectangle: vg.Rectangle{
		Min: dc.Min,
		Max: vg.Point{X: dc.Max.X, Y: split},
	}}
	p.Draw(heat)

	cb := plot.New()
	cb.Add(&plotter.ColorBar{ColorMap: fr.maps[k], Colors: paletteColors})
	cb.HideY()
	cb.Draw(bar)
	return nil
}

// frameDelay converts fps into GIF delay units (hundredths of a second).
func frameDelay(fps float64) int {
	if fps <= 0 {
		return 20
	}
	d := int(math.Round(100 / fps))
	if d < 1 {
		d = 1
	}
	return d
}

// WriteGIF encodes every frame of ds as a looping animated GIF.
func (a *Animator) WriteGIF(ds *meshdata.Dataset, w io.Writer) error {
	defer monitoring.Stage(fmt.Sprintf("render %d frames", ds.FrameCount()))()

	fr, err := a.prepare(ds)
	if err != nil {
		return err
	}

	n := ds.FrameCount()
	delay := frameDelay(a.opts.FPS)
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, n),
		Delay:     make([]int, 0, n),
		LoopCount: 0,
	}
	for i := 0; i < n; i++ {
		img, err := fr.render(i)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		pimg := image.NewPaletted(img.Bounds(), colorpalette.Plan9)
		imgdraw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, image.Point{})
		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}
