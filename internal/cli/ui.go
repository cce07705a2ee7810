package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// uiOut receives status output and errOut receives errors. Tests swap them
// for buffers.
var (
	uiOut  io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	styleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleCommand   = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey       = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	// view status line
	styleStatusBar  = lipgloss.NewStyle().Foreground(colorGray)
	styleStatusKey  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleStatusNode = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	statusSep   = " · "
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(uiOut, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(errOut, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// ReportError prints a command failure. Coded errors show their message
// with the code underneath.
func ReportError(err error) {
	printError("%s", errs.UserMessage(err))
	if code := errs.GetCode(err); code != "" {
		fmt.Fprintln(errOut, "  "+styleDim.Render("code: "+string(code)))
	}
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(uiOut, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(uiOut, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, styleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+styleValue.Render(value))
}

// =============================================================================
// Pipeline Output
// =============================================================================

// printFile prints one written artifact. format is omitted when empty.
func printFile(path, format string) {
	line := "  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path)
	if format != "" {
		line += " " + styleHighlight.Render(format)
	}
	fmt.Fprintln(uiOut, line)
}

// printStats summarizes a pipeline run on one line:
//
//	12 nodes · 14 edges · tick 300 · layout cached · render 4ms fresh
func printStats(res *pipeline.Result) {
	var parts []string
	parts = append(parts, styleNumber.Render(fmt.Sprint(res.Stats.NodeCount))+" "+styleDim.Render("nodes"))
	if res.Stats.EdgeCount > 0 {
		parts = append(parts, styleNumber.Render(fmt.Sprint(res.Stats.EdgeCount))+" "+styleDim.Render("edges"))
	}
	parts = append(parts, styleDim.Render("tick")+" "+styleNumber.Render(fmt.Sprint(res.Layout.Tick)))
	parts = append(parts, stageStatus("layout", res.Stats.LayoutTime, res.CacheInfo.LayoutHit))
	parts = append(parts, stageStatus("render", res.Stats.RenderTime, res.CacheInfo.RenderHit))
	fmt.Fprintln(uiOut, "  "+strings.Join(parts, statusSep))
}

func stageStatus(stage string, d time.Duration, cached bool) string {
	if cached {
		return styleDim.Render(stage) + " " + styleCached.Render(iconCached)
	}
	return styleDim.Render(fmt.Sprintf("%s %s", stage, d.Round(time.Millisecond))) + " " + styleComputed.Render(iconFresh)
}

// printLargeGraph warns that frames will be slow for graphs past the
// engine's soft node limit.
func printLargeGraph(nodes, limit int) {
	printWarning("Large graph: %d nodes", nodes)
	printDetail("Repulsion is quadratic; past %d nodes expect frames below the target rate", limit)
}
