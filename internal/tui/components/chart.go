package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/tui/styles"
)

const (
	minPlotWidth  = 20
	minPlotHeight = 4
	// title, readouts, y label, x tick line, x label
	chartChrome = 5
)

// Chart draws the live temperature trace. It is the tempscope.Surface the
// render loop updates.
type Chart struct {
	axes   tempscope.Axes
	frame  tempscope.Frame
	width  int
	height int
}

var _ tempscope.Surface = (*Chart)(nil)

func NewChart(width, height int) *Chart {
	return &Chart{width: width, height: height}
}

// Init sets the axis labels and clears any previous trace
func (c *Chart) Init(axes tempscope.Axes) {
	c.axes = axes
	c.frame = tempscope.Frame{}
}

// Update replaces the drawn frame
func (c *Chart) Update(frame tempscope.Frame) {
	c.frame = frame
}

func (c *Chart) Axes() tempscope.Axes {
	return c.axes
}

// Frame returns the frame currently drawn
func (c *Chart) Frame() tempscope.Frame {
	return c.frame
}

func (c *Chart) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Readouts renders "Avg: X.XX °C" and "Last: X.XX °C"
func (c *Chart) Readouts() string {
	if len(c.frame.Samples) == 0 {
		return styles.AxisLabelStyle.Render("Waiting for data...")
	}
	avg := styles.AverageReadoutStyle.Render(fmt.Sprintf("Avg: %.2f °C", c.frame.Average))
	last := styles.LastReadoutStyle.Render(fmt.Sprintf("Last: %.2f °C", c.frame.Last.Value))
	return avg + "   " + last
}

func (c *Chart) View() string {
	title := styles.TitleStyle.Render(c.axes.Title)
	yLabel := styles.AxisLabelStyle.Render(c.axes.YLabel)

	plotHeight := max(c.height-chartChrome, minPlotHeight)
	plot := c.plot(plotHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		c.Readouts(),
		yLabel,
		plot,
		c.xAxis(lipgloss.Width(plot)),
	)
}

func (c *Chart) plot(height int) string {
	if len(c.frame.Samples) == 0 {
		return lipgloss.NewStyle().Height(height).Render("")
	}

	values := make([]float64, len(c.frame.Samples))
	for i, s := range c.frame.Samples {
		values[i] = s.Value
	}

	// Leave room for the y tick labels; the y range autoscales to the window
	width := max(c.width-10, minPlotWidth)

	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Red),
		asciigraph.AxisColor(asciigraph.Gray),
		asciigraph.LabelColor(asciigraph.Gray),
	)
}

// xAxis renders the first and last sample index under the plot with the
// axis label centered between them
func (c *Chart) xAxis(width int) string {
	label := c.axes.XLabel
	if len(c.frame.Samples) == 0 {
		return styles.AxisLabelStyle.Render(label)
	}

	first := strconv.FormatUint(c.frame.Samples[0].Index, 10)
	last := strconv.FormatUint(c.frame.Last.Index, 10)

	gap := width - len(first) - len(last) - len(label)
	if gap < 2 {
		return styles.TickLabelStyle.Render(first+" "+last) + " " + styles.AxisLabelStyle.Render(label)
	}
	left := strings.Repeat(" ", gap/2)
	right := strings.Repeat(" ", gap-gap/2)

	return styles.TickLabelStyle.Render(first) + left +
		styles.AxisLabelStyle.Render(label) + right +
		styles.TickLabelStyle.Render(last)
}
