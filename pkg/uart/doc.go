// Package uart provides a buffered UART port for firmware.
package uart

// A Port owns a transmit and a receive ByteFIFO. Application code pushes
// bytes with Send* and pulls them with Receive*/Read*, interrupt handlers
// move bytes between the FIFOs and the hardware registers.
//
// Every application side call runs under the port Mask, so it never
// overlaps an interrupt handler of the port. Handlers themselves don't
// raise the mask, they are expected to run excluded from it, which is
// what framework.Loop does.
//
// Frames are small packets carried over a port:
//
//	[seq] [code | len<<4] [len if >= 7] [data...]
//
// seq is in 1..0xef, code uses bits 0-3 and 7, len is at most 127.
// A reply carries the seq of its request in the first data byte and sets
// bit 0 of the code on error. Bit 7 marks an event, which replies nothing.
//
// Producer: firmware application code, UART interrupt handlers
// Consumer: firmware application code, UART interrupt handlers
