// Package widget provides the minimal server-side widget abstraction used by
// the template renderer and the chart demos: a Widget interface with identity,
// style classes and markup rendering, a small set of concrete widgets, and a
// registry for on-demand widget resolution.
package widget
