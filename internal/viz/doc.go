// Package viz renders guiding runs in the terminal.
//
// Static output uses asciigraph line plots and lipgloss panels:
//
//   - [PlotSeries]: one series of a run as a line plot
//   - [Summary]: metrics and controller settings of a run
//
// [LiveModel] is a Bubble Tea program that steps a simulation session on a
// timer and redraws the guide error as it goes.
//
// # Key Bindings
//
//	Space - Pause/Resume guiding
//	R     - Restart the guide algorithm, keeping the mount state
//	Q     - Quit
package viz
