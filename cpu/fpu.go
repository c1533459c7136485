package cpu

import (
	"math"
)

// Floating point registers hold float64 bits, or float32 bits in their
// low word for the single precision operations.

func single(bits uint64) float32 {
	return math.Float32frombits(uint32(bits))
}

func fromSingle(f float32) uint64 {
	return uint64(math.Float32bits(f))
}

// floatAddress computes the memory location of an FPU load or store.
func (tx *transaction) floatAddress(ins Instruction) location {
	switch ins.Mode {
	case MODE_FDP:
		return tx.direct(ins.Value)
	case MODE_FABS:
		return location{addr: tx.data(ins.Value)}
	case MODE_FIND:
		return location{addr: tx.reg.R[ins.Value%uint32(REG_COUNT)]}
	}
	return location{addr: ins.Value}
}

// compareFloat sets Z on equal, C on greater or equal, N on less than,
// and V when the operands are unordered.
func (tx *transaction) compareFloat(a, b float64) {
	unordered := math.IsNaN(a) || math.IsNaN(b)
	tx.setFlag(FLAG_V, unordered)
	tx.setFlag(FLAG_Z, !unordered && a == b)
	tx.setFlag(FLAG_C, !unordered && a >= b)
	tx.setFlag(FLAG_N, !unordered && a < b)
}

// toInt32 converts with saturation; NaN converts to zero.
func toInt32(f float64) uint32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return 1 << 31
	}
	return uint32(int32(f))
}

func (tx *transaction) executeFloat(ins Instruction) {
	reg := &tx.reg
	fd, fs := (ins.Dst>>4)%FPU_SIZE, ins.Dst%FPU_SIZE
	f := &reg.F

	switch ins.Mnemonic {
	case LDF:
		f[fd] = uint64(tx.load(tx.floatAddress(ins), 4))
	case LDFD:
		loc := tx.floatAddress(ins)
		lo := tx.load(loc, 4)
		hi := tx.load(loc.offset(4), 4)
		f[fd] = uint64(hi)<<32 | uint64(lo)
	case STF:
		tx.store(tx.floatAddress(ins), 4, uint32(f[fd]))
	case STFD:
		loc := tx.floatAddress(ins)
		tx.store(loc, 4, uint32(f[fd]))
		tx.store(loc.offset(4), 4, uint32(f[fd]>>32))

	case FADD:
		f[fd] = fromSingle(single(f[fd]) + single(f[fs]))
	case FSUB:
		f[fd] = fromSingle(single(f[fd]) - single(f[fs]))
	case FMUL:
		f[fd] = fromSingle(single(f[fd]) * single(f[fs]))
	case FDIV:
		f[fd] = fromSingle(single(f[fd]) / single(f[fs]))
	case FNEG:
		f[fd] = fromSingle(-single(f[fs]))
	case FABS:
		f[fd] = fromSingle(float32(math.Abs(float64(single(f[fs])))))
	case FSQRT:
		f[fd] = fromSingle(float32(math.Sqrt(float64(single(f[fs])))))
	case FCMP:
		tx.compareFloat(float64(single(f[fd])), float64(single(f[fs])))
	case FMOV:
		f[fd] = f[fs] & 0xFFFFFFFF

	case FADDD:
		f[fd] = math.Float64bits(math.Float64frombits(f[fd]) + math.Float64frombits(f[fs]))
	case FSUBD:
		f[fd] = math.Float64bits(math.Float64frombits(f[fd]) - math.Float64frombits(f[fs]))
	case FMULD:
		f[fd] = math.Float64bits(math.Float64frombits(f[fd]) * math.Float64frombits(f[fs]))
	case FDIVD:
		f[fd] = math.Float64bits(math.Float64frombits(f[fd]) / math.Float64frombits(f[fs]))
	case FNEGD:
		f[fd] = f[fs] ^ 1<<63
	case FABSD:
		f[fd] = f[fs] &^ (1 << 63)
	case FSQRTD:
		f[fd] = math.Float64bits(math.Sqrt(math.Float64frombits(f[fs])))
	case FCMPD:
		tx.compareFloat(math.Float64frombits(f[fd]), math.Float64frombits(f[fs]))
	case FMOVD:
		f[fd] = f[fs]

	case F2I:
		reg.A = toInt32(float64(single(f[fs])))
		tx.setNZ(reg.A, 4)
	case F2ID:
		reg.A = toInt32(math.Float64frombits(f[fs]))
		tx.setNZ(reg.A, 4)
	case I2F:
		f[fd] = fromSingle(float32(int32(reg.A)))
	case I2FD:
		f[fd] = math.Float64bits(float64(int32(reg.A)))
	case FCVTSD:
		f[fd] = math.Float64bits(float64(single(f[fs])))
	case FCVTDS:
		f[fd] = fromSingle(float32(math.Float64frombits(f[fs])))
	}
}
