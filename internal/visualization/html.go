package visualization

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/equilibrium"
	"github.com/nvandessel/gris/internal/store"
)

// Panel geometry in SVG user units.
const (
	networkSize   = 400.0
	networkRadius = 150.0
	nodeRadius    = 18.0

	chartWidth  = 640.0
	chartHeight = 400.0
	chartMargin = 48.0

	maxXTicks = 10
)

// lineColors is the palette cycled over arguments in the evolution chart.
var lineColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// htmlLabelColors maps labels to node fills in the network panels.
var htmlLabelColors = map[acceptance.Label]string{
	acceptance.Accepted:  "#3cb371",
	acceptance.Rejected:  "#ff6347",
	acceptance.Undecided: "#d3d3d3",
}

// htmlTemplateData holds data passed to the HTML template.
type htmlTemplateData struct {
	Title       string
	RunID       string
	Rounds      int
	StableRound int
	Converged   bool
	Threshold   string
	Initial     networkPanel
	Final       networkPanel
	Evolution   evolutionPanel
}

type networkPanel struct {
	ID      string
	Size    float64
	Caption string
	Nodes   []svgNode
	Edges   []svgEdge
}

type svgNode struct {
	ID     string
	Label  string
	Value  string
	Fill   string
	X, Y   float64
	Radius float64
}

type svgEdge struct {
	X1, Y1, X2, Y2 float64
	Self           bool
}

type evolutionPanel struct {
	Width, Height float64
	Left, Right   float64
	Top, Bottom   float64
	StableX       float64
	Lines         []svgLine
	XTicks        []svgTick
	YTicks        []svgTick
}

type svgLine struct {
	ID      string
	Color   string
	Points  string
	LegendY float64
}

type svgTick struct {
	Pos   float64
	Label string
}

// RenderHTML produces a self-contained HTML page with three charts: the
// network colored by initial label, the value evolution of every argument
// and the network colored by final label.
func RenderHTML(title string, g *store.Graph, res equilibrium.Result, c acceptance.Classifier) ([]byte, error) {
	tmplBytes, err := templates.ReadFile("templates/chart.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("read HTML template: %w", err)
	}

	tmpl, err := template.New("chart").Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parse HTML template: %w", err)
	}

	positions := circleLayout(g.Len())
	data := htmlTemplateData{
		Title:       title,
		RunID:       res.RunID,
		Rounds:      res.Rounds,
		StableRound: res.StableRound,
		Converged:   res.Converged,
		Threshold:   strconv.FormatFloat(c.Threshold, 'f', -1, 64),
		Initial:     buildNetworkPanel("initial", "Initial values", g, c, 0, positions),
		Final:       buildNetworkPanel("final", fmt.Sprintf("Values after %d iteration(s)", g.Rounds()), g, c, acceptance.FinalRound, positions),
		Evolution:   buildEvolutionPanel(g, res.StableRound),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute HTML template: %w", err)
	}
	return buf.Bytes(), nil
}

// circleLayout places n nodes evenly on a circle, the first at the top.
func circleLayout(n int) [][2]float64 {
	center := networkSize / 2
	positions := make([][2]float64, n)
	if n == 1 {
		positions[0] = [2]float64{center, center}
		return positions
	}
	for i := range positions {
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		positions[i] = [2]float64{
			center + networkRadius*math.Cos(angle),
			center + networkRadius*math.Sin(angle),
		}
	}
	return positions
}

func buildNetworkPanel(id, caption string, g *store.Graph, c acceptance.Classifier, round int, positions [][2]float64) networkPanel {
	panel := networkPanel{ID: id, Size: networkSize, Caption: caption}

	for i := 0; i < g.Len(); i++ {
		a := g.Argument(i)
		panel.Nodes = append(panel.Nodes, svgNode{
			ID:     a.ID,
			Label:  truncate(a.ID, 8),
			Value:  strconv.FormatFloat(g.Value(i, round), 'f', 2, 64),
			Fill:   htmlLabelColors[c.LabelAt(g, i, round)],
			X:      positions[i][0],
			Y:      positions[i][1],
			Radius: nodeRadius,
		})
	}

	for _, e := range g.Attacks() {
		si, _ := g.Index(e.Source)
		ti, _ := g.Index(e.Target)
		if si == ti {
			panel.Edges = append(panel.Edges, svgEdge{
				X1: positions[si][0], Y1: positions[si][1] - nodeRadius, Self: true,
			})
			continue
		}
		panel.Edges = append(panel.Edges, shortenEdge(positions[si], positions[ti]))
	}
	return panel
}

// shortenEdge trims both ends of a segment by the node radius so arrows
// end at the node border.
func shortenEdge(from, to [2]float64) svgEdge {
	dx, dy := to[0]-from[0], to[1]-from[1]
	length := math.Hypot(dx, dy)
	if length <= 2*nodeRadius {
		return svgEdge{X1: from[0], Y1: from[1], X2: to[0], Y2: to[1]}
	}
	ux, uy := dx/length, dy/length
	return svgEdge{
		X1: from[0] + ux*nodeRadius,
		Y1: from[1] + uy*nodeRadius,
		X2: to[0] - ux*nodeRadius,
		Y2: to[1] - uy*nodeRadius,
	}
}

func buildEvolutionPanel(g *store.Graph, stableRound int) evolutionPanel {
	p := evolutionPanel{
		Width:  chartWidth,
		Height: chartHeight,
		Left:   chartMargin,
		Right:  chartWidth - chartMargin,
		Top:    chartMargin / 2,
		Bottom: chartHeight - chartMargin,
	}
	rounds := g.Rounds()
	span := float64(max(rounds, 1))
	x := func(round int) float64 { return p.Left + (p.Right-p.Left)*float64(round)/span }
	y := func(v float64) float64 { return p.Bottom - (p.Bottom-p.Top)*min(max(v, 0), 1) }

	p.StableX = x(stableRound)

	for i := 0; i < g.Len(); i++ {
		history := g.History(i)
		points := make([]string, len(history))
		for r, v := range history {
			points[r] = fmt.Sprintf("%.2f,%.2f", x(r), y(v))
		}
		p.Lines = append(p.Lines, svgLine{
			ID:      g.Argument(i).ID,
			Color:   lineColors[i%len(lineColors)],
			Points:  strings.Join(points, " "),
			LegendY: p.Top + 14*float64(i),
		})
	}

	step := max(1, (rounds+maxXTicks-1)/maxXTicks)
	for r := 0; r <= rounds; r += step {
		p.XTicks = append(p.XTicks, svgTick{Pos: x(r), Label: strconv.Itoa(r)})
	}
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
		p.YTicks = append(p.YTicks, svgTick{Pos: y(v), Label: strconv.FormatFloat(v, 'f', 2, 64)})
	}
	return p
}
