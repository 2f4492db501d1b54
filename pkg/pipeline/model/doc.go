// Package model provides the data structures shared by the pipeline package and its options.
// It defines the stages a block goes through (source, encoders, sink or stream)
// and the hook interface pipeline options implement to observe them.
package model
