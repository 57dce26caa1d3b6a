// Package paintline carries module-level metadata.
package paintline

// Version is the current release of the paintline module.
const Version = "0.3.0"
