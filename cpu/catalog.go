package cpu

const (
	OP_NONE     = uint16(0x100) // No encoding for this mnemonic and mode.
	OP_EXTENDED = uint16(0x200) // ESCAPE followed by the low byte.

	ESCAPE = byte(0x42) // Prefix of the extended opcode space.
)

// Opcode is a cell of the primary opcode map.
type Opcode struct {
	Mnemonic Mnemonic
	Mode     Mode
	Nmos     bool // Part of the documented NMOS 6502 set.
}

var primary = [256]Opcode{
	0x00: {BRK, MODE_IMM, true},
	0x01: {ORA, MODE_DPINDX, true},
	0x02: {COP, MODE_IMM, false},
	0x03: {ORA, MODE_SR, false},
	0x04: {TSB, MODE_DP, false},
	0x05: {ORA, MODE_DP, true},
	0x06: {ASL, MODE_DP, true},
	0x07: {ORA, MODE_DPINDL, false},
	0x08: {PHP, MODE_IMP, true},
	0x09: {ORA, MODE_IMM, true},
	0x0A: {ASL, MODE_ACC, true},
	0x0B: {PHD, MODE_IMP, false},
	0x0C: {TSB, MODE_ABS, false},
	0x0D: {ORA, MODE_ABS, true},
	0x0E: {ASL, MODE_ABS, true},
	0x0F: {ORA, MODE_ABSL, false},
	0x10: {BPL, MODE_REL, true},
	0x11: {ORA, MODE_DPINDY, true},
	0x12: {ORA, MODE_DPIND, false},
	0x13: {ORA, MODE_SRIY, false},
	0x14: {TRB, MODE_DP, false},
	0x15: {ORA, MODE_DPX, true},
	0x16: {ASL, MODE_DPX, true},
	0x17: {ORA, MODE_DPINDLY, false},
	0x18: {CLC, MODE_IMP, true},
	0x19: {ORA, MODE_ABSY, true},
	0x1A: {INC, MODE_ACC, false},
	0x1B: {TCS, MODE_IMP, false},
	0x1C: {TRB, MODE_ABS, false},
	0x1D: {ORA, MODE_ABSX, true},
	0x1E: {ASL, MODE_ABSX, true},
	0x1F: {ORA, MODE_ABSLX, false},
	0x20: {JSR, MODE_ABS, true},
	0x21: {AND, MODE_DPINDX, true},
	0x22: {JSR, MODE_ABSL, false},
	0x23: {AND, MODE_SR, false},
	0x24: {BIT, MODE_DP, true},
	0x25: {AND, MODE_DP, true},
	0x26: {ROL, MODE_DP, true},
	0x27: {AND, MODE_DPINDL, false},
	0x28: {PLP, MODE_IMP, true},
	0x29: {AND, MODE_IMM, true},
	0x2A: {ROL, MODE_ACC, true},
	0x2B: {PLD, MODE_IMP, false},
	0x2C: {BIT, MODE_ABS, true},
	0x2D: {AND, MODE_ABS, true},
	0x2E: {ROL, MODE_ABS, true},
	0x2F: {AND, MODE_ABSL, false},
	0x30: {BMI, MODE_REL, true},
	0x31: {AND, MODE_DPINDY, true},
	0x32: {AND, MODE_DPIND, false},
	0x33: {AND, MODE_SRIY, false},
	0x34: {BIT, MODE_DPX, false},
	0x35: {AND, MODE_DPX, true},
	0x36: {ROL, MODE_DPX, true},
	0x37: {AND, MODE_DPINDLY, false},
	0x38: {SEC, MODE_IMP, true},
	0x39: {AND, MODE_ABSY, true},
	0x3A: {DEC, MODE_ACC, false},
	0x3B: {TSC, MODE_IMP, false},
	0x3C: {BIT, MODE_ABSX, false},
	0x3D: {AND, MODE_ABSX, true},
	0x3E: {ROL, MODE_ABSX, true},
	0x3F: {AND, MODE_ABSLX, false},
	0x40: {RTI, MODE_IMP, true},
	0x41: {EOR, MODE_DPINDX, true},
	0x42: {WDM, MODE_IMP, false},
	0x43: {EOR, MODE_SR, false},
	0x44: {MVP, MODE_BLK, false},
	0x45: {EOR, MODE_DP, true},
	0x46: {LSR, MODE_DP, true},
	0x47: {EOR, MODE_DPINDL, false},
	0x48: {PHA, MODE_IMP, true},
	0x49: {EOR, MODE_IMM, true},
	0x4A: {LSR, MODE_ACC, true},
	0x4B: {PHK, MODE_IMP, false},
	0x4C: {JMP, MODE_ABS, true},
	0x4D: {EOR, MODE_ABS, true},
	0x4E: {LSR, MODE_ABS, true},
	0x4F: {EOR, MODE_ABSL, false},
	0x50: {BVC, MODE_REL, true},
	0x51: {EOR, MODE_DPINDY, true},
	0x52: {EOR, MODE_DPIND, false},
	0x53: {EOR, MODE_SRIY, false},
	0x54: {MVN, MODE_BLK, false},
	0x55: {EOR, MODE_DPX, true},
	0x56: {LSR, MODE_DPX, true},
	0x57: {EOR, MODE_DPINDLY, false},
	0x58: {CLI, MODE_IMP, true},
	0x59: {EOR, MODE_ABSY, true},
	0x5A: {PHY, MODE_IMP, false},
	0x5B: {TCD, MODE_IMP, false},
	0x5C: {JMP, MODE_ABSL, false},
	0x5D: {EOR, MODE_ABSX, true},
	0x5E: {LSR, MODE_ABSX, true},
	0x5F: {EOR, MODE_ABSLX, false},
	0x60: {RTS, MODE_IMP, true},
	0x61: {ADC, MODE_DPINDX, true},
	0x62: {PER, MODE_RELL, false},
	0x63: {ADC, MODE_SR, false},
	0x64: {STZ, MODE_DP, false},
	0x65: {ADC, MODE_DP, true},
	0x66: {ROR, MODE_DP, true},
	0x67: {ADC, MODE_DPINDL, false},
	0x68: {PLA, MODE_IMP, true},
	0x69: {ADC, MODE_IMM, true},
	0x6A: {ROR, MODE_ACC, true},
	0x6B: {RTL, MODE_IMP, false},
	0x6C: {JMP, MODE_ABSIND, true},
	0x6D: {ADC, MODE_ABS, true},
	0x6E: {ROR, MODE_ABS, true},
	0x6F: {ADC, MODE_ABSL, false},
	0x70: {BVS, MODE_REL, true},
	0x71: {ADC, MODE_DPINDY, true},
	0x72: {ADC, MODE_DPIND, false},
	0x73: {ADC, MODE_SRIY, false},
	0x74: {STZ, MODE_DPX, false},
	0x75: {ADC, MODE_DPX, true},
	0x76: {ROR, MODE_DPX, true},
	0x77: {ADC, MODE_DPINDLY, false},
	0x78: {SEI, MODE_IMP, true},
	0x79: {ADC, MODE_ABSY, true},
	0x7A: {PLY, MODE_IMP, false},
	0x7B: {TDC, MODE_IMP, false},
	0x7C: {JMP, MODE_ABSINDX, false},
	0x7D: {ADC, MODE_ABSX, true},
	0x7E: {ROR, MODE_ABSX, true},
	0x7F: {ADC, MODE_ABSLX, false},
	0x80: {BRA, MODE_REL, false},
	0x81: {STA, MODE_DPINDX, true},
	0x82: {BRL, MODE_RELL, false},
	0x83: {STA, MODE_SR, false},
	0x84: {STY, MODE_DP, true},
	0x85: {STA, MODE_DP, true},
	0x86: {STX, MODE_DP, true},
	0x87: {STA, MODE_DPINDL, false},
	0x88: {DEY, MODE_IMP, true},
	0x89: {BIT, MODE_IMM, false},
	0x8A: {TXA, MODE_IMP, true},
	0x8B: {PHB, MODE_IMP, false},
	0x8C: {STY, MODE_ABS, true},
	0x8D: {STA, MODE_ABS, true},
	0x8E: {STX, MODE_ABS, true},
	0x8F: {STA, MODE_ABSL, false},
	0x90: {BCC, MODE_REL, true},
	0x91: {STA, MODE_DPINDY, true},
	0x92: {STA, MODE_DPIND, false},
	0x93: {STA, MODE_SRIY, false},
	0x94: {STY, MODE_DPX, true},
	0x95: {STA, MODE_DPX, true},
	0x96: {STX, MODE_DPY, true},
	0x97: {STA, MODE_DPINDLY, false},
	0x98: {TYA, MODE_IMP, true},
	0x99: {STA, MODE_ABSY, true},
	0x9A: {TXS, MODE_IMP, true},
	0x9B: {TXY, MODE_IMP, false},
	0x9C: {STZ, MODE_ABS, false},
	0x9D: {STA, MODE_ABSX, true},
	0x9E: {STZ, MODE_ABSX, false},
	0x9F: {STA, MODE_ABSLX, false},
	0xA0: {LDY, MODE_IMM, true},
	0xA1: {LDA, MODE_DPINDX, true},
	0xA2: {LDX, MODE_IMM, true},
	0xA3: {LDA, MODE_SR, false},
	0xA4: {LDY, MODE_DP, true},
	0xA5: {LDA, MODE_DP, true},
	0xA6: {LDX, MODE_DP, true},
	0xA7: {LDA, MODE_DPINDL, false},
	0xA8: {TAY, MODE_IMP, true},
	0xA9: {LDA, MODE_IMM, true},
	0xAA: {TAX, MODE_IMP, true},
	0xAB: {PLB, MODE_IMP, false},
	0xAC: {LDY, MODE_ABS, true},
	0xAD: {LDA, MODE_ABS, true},
	0xAE: {LDX, MODE_ABS, true},
	0xAF: {LDA, MODE_ABSL, false},
	0xB0: {BCS, MODE_REL, true},
	0xB1: {LDA, MODE_DPINDY, true},
	0xB2: {LDA, MODE_DPIND, false},
	0xB3: {LDA, MODE_SRIY, false},
	0xB4: {LDY, MODE_DPX, true},
	0xB5: {LDA, MODE_DPX, true},
	0xB6: {LDX, MODE_DPY, true},
	0xB7: {LDA, MODE_DPINDLY, false},
	0xB8: {CLV, MODE_IMP, true},
	0xB9: {LDA, MODE_ABSY, true},
	0xBA: {TSX, MODE_IMP, true},
	0xBB: {TYX, MODE_IMP, false},
	0xBC: {LDY, MODE_ABSX, true},
	0xBD: {LDA, MODE_ABSX, true},
	0xBE: {LDX, MODE_ABSY, true},
	0xBF: {LDA, MODE_ABSLX, false},
	0xC0: {CPY, MODE_IMM, true},
	0xC1: {CMP, MODE_DPINDX, true},
	0xC2: {REP, MODE_IMM, false},
	0xC3: {CMP, MODE_SR, false},
	0xC4: {CPY, MODE_DP, true},
	0xC5: {CMP, MODE_DP, true},
	0xC6: {DEC, MODE_DP, true},
	0xC7: {CMP, MODE_DPINDL, false},
	0xC8: {INY, MODE_IMP, true},
	0xC9: {CMP, MODE_IMM, true},
	0xCA: {DEX, MODE_IMP, true},
	0xCB: {WAI, MODE_IMP, false},
	0xCC: {CPY, MODE_ABS, true},
	0xCD: {CMP, MODE_ABS, true},
	0xCE: {DEC, MODE_ABS, true},
	0xCF: {CMP, MODE_ABSL, false},
	0xD0: {BNE, MODE_REL, true},
	0xD1: {CMP, MODE_DPINDY, true},
	0xD2: {CMP, MODE_DPIND, false},
	0xD3: {CMP, MODE_SRIY, false},
	0xD4: {PEI, MODE_DPIND, false},
	0xD5: {CMP, MODE_DPX, true},
	0xD6: {DEC, MODE_DPX, true},
	0xD7: {CMP, MODE_DPINDLY, false},
	0xD8: {CLD, MODE_IMP, true},
	0xD9: {CMP, MODE_ABSY, true},
	0xDA: {PHX, MODE_IMP, false},
	0xDB: {STP, MODE_IMP, false},
	0xDC: {JMP, MODE_ABSINDL, false},
	0xDD: {CMP, MODE_ABSX, true},
	0xDE: {DEC, MODE_ABSX, true},
	0xDF: {CMP, MODE_ABSLX, false},
	0xE0: {CPX, MODE_IMM, true},
	0xE1: {SBC, MODE_DPINDX, true},
	0xE2: {SEP, MODE_IMM, false},
	0xE3: {SBC, MODE_SR, false},
	0xE4: {CPX, MODE_DP, true},
	0xE5: {SBC, MODE_DP, true},
	0xE6: {INC, MODE_DP, true},
	0xE7: {SBC, MODE_DPINDL, false},
	0xE8: {INX, MODE_IMP, true},
	0xE9: {SBC, MODE_IMM, true},
	0xEA: {NOP, MODE_IMP, true},
	0xEB: {XBA, MODE_IMP, false},
	0xEC: {CPX, MODE_ABS, true},
	0xED: {SBC, MODE_ABS, true},
	0xEE: {INC, MODE_ABS, true},
	0xEF: {SBC, MODE_ABSL, false},
	0xF0: {BEQ, MODE_REL, true},
	0xF1: {SBC, MODE_DPINDY, true},
	0xF2: {SBC, MODE_DPIND, false},
	0xF3: {SBC, MODE_SRIY, false},
	0xF4: {PEA, MODE_ABS, false},
	0xF5: {SBC, MODE_DPX, true},
	0xF6: {INC, MODE_DPX, true},
	0xF7: {SBC, MODE_DPINDLY, false},
	0xF8: {SED, MODE_IMP, true},
	0xF9: {SBC, MODE_ABSY, true},
	0xFA: {PLX, MODE_IMP, false},
	0xFB: {XCE, MODE_IMP, false},
	0xFC: {JSR, MODE_ABSINDX, false},
	0xFD: {SBC, MODE_ABSX, true},
	0xFE: {INC, MODE_ABSX, true},
	0xFF: {SBC, MODE_ABSLX, false},
}

// opcodes is the inverse of the primary and extended maps, indexed by
// mnemonic and mode.
var opcodes [MNEMONIC_COUNT][MODE_COUNT]uint16

func init() {
	for mn := range opcodes {
		for mode := range opcodes[mn] {
			opcodes[mn][mode] = OP_NONE
		}
	}

	for op, entry := range primary {
		if byte(op) == ESCAPE {
			continue
		}
		opcodes[entry.Mnemonic][entry.Mode] = uint16(op)
	}

	for sub, entry := range extended {
		if entry.valid {
			opcodes[entry.Mnemonic][entry.Mode] = OP_EXTENDED | uint16(sub)
		}
	}
}

// Primary returns the primary map entry of an opcode byte.
func Primary(op byte) Opcode {
	return primary[op]
}

// Lookup returns the encoding of a mnemonic in an addressing mode:
// a primary opcode, OP_EXTENDED with the sub-opcode, or OP_NONE.
func Lookup(mn Mnemonic, mode Mode) uint16 {
	if mn < 0 || mn >= MNEMONIC_COUNT || mode < 0 || mode >= MODE_COUNT {
		return OP_NONE
	}
	return opcodes[mn][mode]
}

// Supports reports whether the mnemonic has an encoding in the mode.
func Supports(mn Mnemonic, mode Mode) bool {
	return Lookup(mn, mode) != OP_NONE
}

var promotion = map[Mode]Mode{
	MODE_DP:     MODE_ABS,
	MODE_DPX:    MODE_ABSX,
	MODE_DPY:    MODE_ABSY,
	MODE_DPIND:  MODE_ABSIND,
	MODE_DPINDX: MODE_ABSINDX,
	MODE_DPINDL: MODE_ABSINDL,
	MODE_ABS:    MODE_ABSL,
	MODE_ABSX:   MODE_ABSLX,
	MODE_ABSL:   MODE_ABS32,
	MODE_FDP:    MODE_FABS,
	MODE_FABS:   MODE_FABS32,
}

// Promote finds the narrowest mode, starting from mode and widening the
// operand, in which the mnemonic is encodable. Direct page forms only
// widen for the mnemonics that allow it.
func Promote(mn Mnemonic, mode Mode) (encodable Mode, ok bool) {
	encodable = mode
	for {
		if Supports(mn, encodable) {
			ok = true
			return
		}
		next, more := promotion[encodable]
		if !more || (encodable.DirectPage() && !mn.Promotes()) {
			break
		}
		encodable = next
	}

	encodable = mode
	return
}
