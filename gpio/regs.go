package gpio

import "xecgpio-go/x/bitx"

// PCR1 control-register field encoding: one 32-bit register per pin,
// per the MEC15xx GPIO documentation. Direction, pull, buffer type,
// AOD, power gating and interrupt detection all live here.
const (
	ctrlPUDMask uint32 = 0x3 << 0
	ctrlPUDNone uint32 = 0x0 << 0
	ctrlPUDUp   uint32 = 0x1 << 0
	ctrlPUDDown uint32 = 0x2 << 0

	ctrlPwrGateMask uint32 = 0x3 << 2
	ctrlPwrGateVTR  uint32 = 0x0 << 2
	ctrlPwrGateOff  uint32 = 0x2 << 2

	ctrlIDetMask    uint32 = 0xF << 4
	ctrlIDetLevelLo uint32 = 0x0 << 4
	ctrlIDetLevelHi uint32 = 0x1 << 4
	ctrlIDetDisable uint32 = 0x4 << 4
	ctrlIDetREdge   uint32 = 0xD << 4
	ctrlIDetFEdge   uint32 = 0xE << 4
	ctrlIDetBEdge   uint32 = 0xF << 4

	ctrlBufTypeMask      uint32 = 1 << 8
	ctrlBufTypePushPull  uint32 = 0 << 8
	ctrlBufTypeOpenDrain uint32 = 1 << 8

	ctrlDirMask   uint32 = 1 << 9
	ctrlDirInput  uint32 = 0 << 9
	ctrlDirOutput uint32 = 1 << 9

	// AOD set means the parallel output register, not the alternate
	// function path, drives the pin once direction is output.
	ctrlAODMask    uint32 = 1 << 10
	ctrlAODDisable uint32 = 1 << 10

	ctrlPolarityInvert uint32 = 1 << 11

	ctrlMuxMask uint32 = 0x3 << 12
	ctrlMuxGPIO uint32 = 0x0 << 12

	ctrlInPadDisMask uint32 = 1 << 15
)

// GPIO block layout: per-pin control registers in 0x80-byte banks of
// 32, parallel input and output registers one word per port.
const (
	ctrlBankStride uint32 = 0x80
	parinBase      uint32 = 0x0300
	paroutBase     uint32 = 0x0380
)

// GirqReg selects one register of an aggregator group.
type GirqReg uint32

// Aggregator (ECIA) register offsets within a group. Groups are laid
// out at a 0x14-byte stride starting from GIRQ08; the block enable
// set/clear registers follow the group array.
const (
	GirqSrc    GirqReg = 0x00 // pending sources, write-one-to-clear
	GirqEnSet  GirqReg = 0x04
	GirqResult GirqReg = 0x08 // enabled AND pending, read-only
	GirqEnClr  GirqReg = 0x0C
)

const (
	girqFirst       = 8
	girqStride      = 0x14
	girqBlkEnSetOff = 0x200
	girqBlkEnClrOff = 0x204
)

// GirqOffset returns the byte offset of one aggregator register for a
// group. Platform interrupt glue uses it to wire vectors; tests use it
// to observe aggregator state.
func GirqOffset(girq uint8, reg GirqReg) uint32 {
	return uint32(girq-girqFirst)*girqStride + uint32(reg)
}

func girqBit(girq uint8) uint32 {
	return bitx.Bit[uint32](int(girq - girqFirst))
}
