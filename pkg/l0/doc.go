// Package l0 groups the serial line protocol spoken between the gesture
// frontend and the bridge.
//
// L0 is a line-delimited text protocol over a raw byte stream (serial port,
// broker topic, websocket). The stream is unbuffered and noisy: a line may be
// split across reads, carry control bytes or never terminate. Framing in
// package line resynchronizes on every terminator and drops oversized lines;
// package msgs extracts the input fields from a framed line.
//
// Producer: gesture frontend
// Consumer: bridge
package l0
