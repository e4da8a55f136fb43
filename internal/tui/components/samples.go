package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/tui/colors"
)

const (
	columnKeyIndex = "index"
	columnKeyValue = "value"
	columnKeyDelta = "delta"
)

// SampleTable lists the newest samples of the window, newest first
type SampleTable struct {
	table table.Model
	rows  int
	frame tempscope.Frame
}

func NewSampleTable(rows int) *SampleTable {
	st := &SampleTable{rows: max(rows, 1)}
	st.table = st.build(nil)
	return st
}

func (st *SampleTable) build(rows []table.Row) table.Model {
	columns := []table.Column{
		table.NewColumn(columnKeyIndex, "#", 7),
		table.NewColumn(columnKeyValue, "°C", 8),
		table.NewColumn(columnKeyDelta, "Δ avg", 8),
	}

	return table.New(columns).
		WithRows(rows).
		WithPageSize(st.rows).
		WithFooterVisibility(false).
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Text)).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(colors.Subtext1).
			BorderForeground(colors.Surface2).
			Align(lipgloss.Right)).
		Focused(false)
}

// SetRows changes how many samples are listed
func (st *SampleTable) SetRows(rows int) {
	st.rows = max(rows, 1)
	st.Update(st.frame)
}

// Update rebuilds the rows from frame
func (st *SampleTable) Update(frame tempscope.Frame) {
	st.frame = frame

	n := min(len(frame.Samples), st.rows)
	rows := make([]table.Row, 0, n)
	for i := len(frame.Samples) - 1; i >= len(frame.Samples)-n; i-- {
		s := frame.Samples[i]
		delta := s.Value - frame.Average

		deltaStyle := lipgloss.NewStyle().Foreground(colors.Teal)
		if delta > 0 {
			deltaStyle = lipgloss.NewStyle().Foreground(colors.Peach)
		}

		rows = append(rows, table.NewRow(table.RowData{
			columnKeyIndex: s.Index,
			columnKeyValue: fmt.Sprintf("%.2f", s.Value),
			columnKeyDelta: table.NewStyledCell(fmt.Sprintf("%+.2f", delta), deltaStyle),
		}))
	}

	st.table = st.build(rows)
}

// Len returns the number of listed rows
func (st *SampleTable) Len() int {
	return min(len(st.frame.Samples), st.rows)
}

func (st *SampleTable) View() string {
	return st.table.View()
}
