// Package pipeline provides a synchronous block pipeline for byte or character data.
//
// A pipeline reads blocks of at most a configured size from a Source, runs each block through an ordered chain of
// Encoders and delivers the result either by push, writing every finished block to a Sink with Run, or by pull,
// exposing the pipeline as a Stream read on demand.
//
// Every encoder of the chain sees exactly one final call, even when the source is empty. An encoder returning no
// output on a non-final call stops the current block, which lets encoders accumulate data across several blocks.
// NewFixedSize, NewMultipleSize, NewRound and NewBuffered wrap an encoder so that it only sees inputs of a given
// shape, carrying the residual data over to the next call.
//
// Errors raised by sources and sinks are reported as *IOError, errors raised by encoders as *EncodingError.
//
// Everything runs on the calling goroutine. A pipeline, its encoders and its stream must not be used concurrently.
package pipeline
