// Package monitor renders detection diagnostics and benchmark reports:
// depth-grid heatmaps and per-tick timing charts as PNG via gonum/plot, and
// an HTML benchmark summary via go-echarts.
package monitor
