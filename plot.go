package main

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// writePlot renders one latency curve per structure: per-round ns/op against
// round number, so growth-related cliffs (rehashes, level splits, cache
// exhaustion) show up as steps.
func writePlot(series map[string][]float64, op, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s latency per round", op)
	p.X.Label.Text = "round"
	p.Y.Label.Text = "ns/op"

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	var args []interface{}
	for _, name := range names {
		xys := make(plotter.XYs, len(series[name]))
		for i, v := range series[name] {
			xys[i].X = float64(i)
			xys[i].Y = v
		}
		args = append(args, name, xys)
	}

	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
