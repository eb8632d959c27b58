// Package lists provides fixed-capacity containers for firmware buffers.
package lists

// All byte and object containers are backed by a single arena allocated
// at creation time and never resized. Object containers keep their links
// as arena offsets rather than pointers, so an arena can be copied or
// relocated without fixing up its records.
//
// None of the containers lock internally. A container shared between an
// interrupt handler (or goroutine) and the main context must be accessed
// under a Mask for the whole read-modify-write sequence, see Protect.
// SPSCRing is the exception: it is safe for exactly one producer and one
// consumer without masking.
//
// Producer: firmware application code, UART interrupt handlers
// Consumer: firmware application code, UART interrupt handlers
