// Package engine drives the external aria2c download engine.
//
// The engine is an opaque subprocess: this package finds the binary, builds
// its command line, reads its console readout and delivers pause, resume and
// stop as process signals. Transfers, segmentation and resume state stay
// inside aria2c.
package engine
