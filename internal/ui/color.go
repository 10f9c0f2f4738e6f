package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle = lipgloss.NewStyle().Faint(true)
	cmpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	fixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hdrStyle = lipgloss.NewStyle().Bold(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func CmpLine(w io.Writer, name, outputPath string) {
	fmt.Fprintln(w, cmpStyle.Render("cmp")+"  "+name+" -> "+outputPath)
}

func ErrLine(w io.Writer, name, message string) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+name+": "+message)
}

func FixLine(w io.Writer, name string, line int, message string) {
	if line > 0 {
		fmt.Fprintf(w, "%s  %s:%d: %s\n", fixStyle.Render("fix"), name, line, message)
		return
	}
	fmt.Fprintf(w, "%s  %s: %s\n", fixStyle.Render("fix"), name, message)
}

func SyncSummary(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d protocols\n", count)
}

func BuildSummary(w io.Writer, ok, failed int) {
	fmt.Fprintf(w, "built %d protocols, %d failed\n", ok, failed)
}

func ListRow(w io.Writer, name, status string, nameWidth int) {
	fmt.Fprintf(w, "%-*s  %s\n", nameWidth, name, status)
}

func ShowHeader(w io.Writer, name string) {
	fmt.Fprintln(w, hdrStyle.Render(name))
}

func ShowStat(w io.Writer, label string, value string) {
	fmt.Fprintf(w, "  %s: %s\n", label, value)
}
