// Package protocol frames timer trace records for a one-way link from the
// target to the host. Blocks use the Klipper layout: length, sequence,
// VLQ payload, CRC16 and a trailing sync byte.
package protocol

// Version is the trace format version
const Version = "1"

// Block layout
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	MessageSeqMask = 0x0F

	// ScratchSize is the capacity of a ScratchOutput
	ScratchSize = 512
)
