// Package bridge connects the wire of a simulated UART port to a host
// transport.
package bridge

// Bytes transmitted by the firmware are forwarded as packets, packets
// received from the host are fed back to the firmware as received bytes.
// Packet boundaries don't have to match frame boundaries, frames are
// decoded by the firmware side (uart.FrameReader).
//
// A Client is the host end: it sends requests as frames and matches the
// replies written by uart.FrameWriter.Reply.
//
// Producer: simulated firmware, host tools
// Consumer: host tools, simulated firmware
