package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/simehaa/AlievPanfilovCPU/internal/meshdata"
)

// heatColors are viridis stops for the visual map.
var heatColors = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// ResolveFrame maps a possibly negative frame number (counting from the
// end, -1 is the last frame) onto [0, n).
func ResolveFrame(frame, n int) (int, error) {
	if frame < 0 {
		frame += n
	}
	if frame < 0 || frame >= n {
		return 0, fmt.Errorf("frame %d out of range for %d frames", frame, n)
	}
	return frame, nil
}

func axisLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// WriteSnapshotHTML renders one frame of every series as interactive
// heat maps on a single HTML page. Colour scales use the series range
// over all frames, matching the GIF.
func WriteSnapshotHTML(ds *meshdata.Dataset, frame int, w io.Writer) error {
	i, err := ResolveFrame(frame, ds.FrameCount())
	if err != nil {
		return err
	}

	subtitle := fmt.Sprintf("frame %d of %d", i+1, ds.FrameCount())
	if ts, ok := ds.Timestamp(i); ok {
		subtitle += fmt.Sprintf(", t = %g", ts)
	}

	page := components.NewPage()
	grids := ds.Frame(i)
	for _, k := range ds.Keys() {
		s, _ := ds.Series(k)
		lo, hi := seriesRange(s)
		g := grids[k]

		data := make([]opts.HeatMapData, 0, g.Rows()*g.Cols())
		for r := 0; r < g.Rows(); r++ {
			for c := 0; c < g.Cols(); c++ {
				data = append(data, opts.HeatMapData{Value: [3]interface{}{c, r, g.At(r, c)}})
			}
		}

		hm := charts.NewHeatMap()
		hm.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "640px", Height: "640px"}),
			charts.WithTitleOpts(opts.Title{Title: k.String() + " mesh", Subtitle: subtitle}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: axisLabels(g.Cols()), Name: "col"}),
			charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: axisLabels(g.Rows()), Name: "row"}),
			charts.WithVisualMapOpts(opts.VisualMap{
				Show:       opts.Bool(true),
				Calculable: opts.Bool(true),
				Min:        float32(lo),
				Max:        float32(hi),
				InRange:    &opts.VisualMapInRange{Color: heatColors},
			}),
		)
		hm.AddSeries(k.String(), data)
		page.AddCharts(hm)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render snapshot page: %w", err)
	}
	return nil
}
