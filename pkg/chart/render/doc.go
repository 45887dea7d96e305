// Package render produces server-side chart snapshots. It projects the
// interactive engine's pan/zoom state into a visible model window and draws
// the window with go-chart, so the static image matches what the client
// side transform would show.
package render
