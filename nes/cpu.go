package nes

import "fmt"

const (
	resetVector = uint16(0xFFFC)

	stackBase  = uint16(0x0100)
	stackReset = byte(0xFD)

	// Program images loaded through Load live here, inside work RAM.
	loadAddr = uint16(0x0600)
)

// Status is the processor status register (P): eight named bits packed
// in a byte so PHP, PLP and RTI can move it atomically.
//
//	7 6 5 4 3 2 1 0
//	N V B2 B D I Z C
//
// B and B2 are not real flags; they only exist in copies of the
// register pushed on the stack. Decimal is latched but ignored, the
// 2A03 has no BCD unit.
type Status byte

const (
	FlagCarry Status = 1 << iota
	FlagZero
	FlagInterrupt
	FlagDecimal
	FlagBreak
	FlagBreak2
	FlagOverflow
	FlagNegative
)

// resetStatus is the register value after reset: Interrupt-Disable and
// B2 set, everything else clear.
const resetStatus = FlagInterrupt | FlagBreak2

// Has reports whether every bit of f is set.
func (s Status) Has(f Status) bool { return s&f == f }

func (s *Status) set(f Status, on bool) {
	if on {
		*s |= f
	} else {
		*s &^= f
	}
}

// Memory is the capability through which the CPU touches the outside
// world. Every fetch, operand read, stack access, and store goes
// through it; nothing bypasses the bus. Word accesses are two byte
// accesses, low byte first.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
	ReadWord(addr uint16) uint16
	WriteWord(addr uint16, v uint16)
}

// CPU interprets the Ricoh 2A03 instruction set: a MOS 6502 without
// decimal arithmetic. Registers are exported so callers and tests can
// observe or adjust state at instruction boundaries.
type CPU struct {
	A  byte
	X  byte
	Y  byte
	SP byte
	PC uint16
	P  Status

	bus    Memory
	halted bool
}

// New builds a CPU around a memory capability. Call Reset before
// running to latch the reset vector.
func New(bus Memory) *CPU {
	return &CPU{
		bus: bus,
		SP:  stackReset,
		P:   resetStatus,
	}
}

// Reset puts the CPU in its power-on state: A and X cleared, status
// reinitialised, SP at $FD, and PC loaded from the word at $FFFC.
// Work RAM is left untouched.
func (c *CPU) Reset() {
	c.A = 0
	c.X = 0
	c.SP = stackReset
	c.P = resetStatus
	c.PC = c.readWord(resetVector)
}

// Load copies a program image into work RAM at $0600 through the bus.
// The cartridge's reset vector must already point at $0600 for Reset
// to find it; the image itself cannot carry the vector because the
// PRG-ROM window is read-only.
func (c *CPU) Load(program []byte) {
	for i, b := range program {
		c.write(loadAddr+uint16(i), b)
	}
}

// LoadAndRun is Load, Reset, Run.
func (c *CPU) LoadAndRun(program []byte) error {
	c.Load(program)
	c.Reset()
	return c.Run()
}

// Run executes instructions until BRK ($00) is fetched, Stop is
// called, or a fault aborts the loop.
func (c *CPU) Run() error {
	return c.RunWithCallback(nil)
}

// RunWithCallback is Run with an observation hook: fn is invoked with
// the CPU before each fetch and may mutate registers or call Stop.
// Faults (writes into ROM, an effective-address request for an
// implicit-operand instruction, an opcode byte missing from the
// table) abort the loop and are returned as errors.
func (c *CPU) RunWithCallback(fn func(*CPU)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(runFault)
			if !ok {
				panic(r)
			}
			err = f.err
		}
	}()

	c.halted = false
	for {
		if fn != nil {
			fn(c)
		}
		if c.halted {
			return nil
		}
		if c.step() {
			return nil
		}
	}
}

// Stop makes the run loop exit before the next fetch. It is safe to
// call from a run callback.
func (c *CPU) Stop() {
	c.halted = true
}

// runFault carries a fatal error out of the instruction stream; the
// run loop turns it back into a plain error.
type runFault struct {
	err error
}

func fail(err error) {
	panic(runFault{err})
}

func (c *CPU) read(addr uint16) byte       { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v byte)   { c.bus.Write(addr, v) }
func (c *CPU) readWord(addr uint16) uint16 { return c.bus.ReadWord(addr) }

// step fetches, decodes and executes one instruction, reporting
// whether the program broke. PC bookkeeping follows one rule: if the
// handler did not move PC itself, PC advances by size-1 so it lands on
// the next opcode.
func (c *CPU) step() (done bool) {
	code := c.read(c.PC)
	c.PC++

	op, ok := opcodeMap[code]
	if !ok {
		fail(fmt.Errorf("nes: opcode $%02X at $%04X is not in the table", code, c.PC-1))
	}

	pc := c.PC

	switch code {
	case 0x00: // BRK
		// Modelled as an unconditional exit from the run loop, not the
		// interrupt sequence; there is no interrupt delivery to return to.
		return true

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		c.adc(op.Mode)
	case 0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1, 0xEB: // $EB is the undocumented alias
		c.sbc(op.Mode)

	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		c.and(op.Mode)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		c.eor(op.Mode)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		c.ora(op.Mode)

	case 0x0A:
		c.A = c.doAsl(c.A)
	case 0x06, 0x16, 0x0E, 0x1E:
		c.asl(op.Mode)
	case 0x4A:
		c.A = c.doLsr(c.A)
	case 0x46, 0x56, 0x4E, 0x5E:
		c.lsr(op.Mode)
	case 0x2A:
		c.A = c.doRol(c.A)
	case 0x26, 0x36, 0x2E, 0x3E:
		c.rol(op.Mode)
	case 0x6A:
		c.A = c.doRor(c.A)
	case 0x66, 0x76, 0x6E, 0x7E:
		c.ror(op.Mode)

	case 0x90:
		c.branch(!c.P.Has(FlagCarry))
	case 0xB0:
		c.branch(c.P.Has(FlagCarry))
	case 0xD0:
		c.branch(!c.P.Has(FlagZero))
	case 0xF0:
		c.branch(c.P.Has(FlagZero))
	case 0x10:
		c.branch(!c.P.Has(FlagNegative))
	case 0x30:
		c.branch(c.P.Has(FlagNegative))
	case 0x50:
		c.branch(!c.P.Has(FlagOverflow))
	case 0x70:
		c.branch(c.P.Has(FlagOverflow))

	case 0x24, 0x2C:
		c.bit(op.Mode)

	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		c.compare(op.Mode, c.A)
	case 0xE0, 0xE4, 0xEC:
		c.compare(op.Mode, c.X)
	case 0xC0, 0xC4, 0xCC:
		c.compare(op.Mode, c.Y)

	case 0xC6, 0xD6, 0xCE, 0xDE:
		c.dec(op.Mode)
	case 0xCA:
		c.X--
		c.setZN(c.X)
	case 0x88:
		c.Y--
		c.setZN(c.Y)
	case 0xE6, 0xF6, 0xEE, 0xFE:
		c.inc(op.Mode)
	case 0xE8:
		c.X++
		c.setZN(c.X)
	case 0xC8:
		c.Y++
		c.setZN(c.Y)

	case 0x4C:
		c.PC = c.readWord(c.PC)
	case 0x6C:
		c.jmpIndirect()
	case 0x20:
		c.jsr()
	case 0x60:
		c.PC = c.pullWord() + 1
	case 0x40:
		c.rti()

	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		c.lda(op.Mode)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		c.ldx(op.Mode)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		c.ldy(op.Mode)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		c.write(c.operandAddress(op.Mode), c.A)
	case 0x86, 0x96, 0x8E:
		c.write(c.operandAddress(op.Mode), c.X)
	case 0x84, 0x94, 0x8C:
		c.write(c.operandAddress(op.Mode), c.Y)

	case 0x48:
		c.push(c.A)
	case 0x68:
		c.setA(c.pull())
	case 0x08:
		c.php()
	case 0x28:
		c.plp()

	case 0x18:
		c.P.set(FlagCarry, false)
	case 0x38:
		c.P.set(FlagCarry, true)
	case 0xD8:
		c.P.set(FlagDecimal, false)
	case 0xF8:
		c.P.set(FlagDecimal, true)
	case 0x58:
		c.P.set(FlagInterrupt, false)
	case 0x78:
		c.P.set(FlagInterrupt, true)
	case 0xB8:
		c.P.set(FlagOverflow, false)

	case 0xAA:
		c.X = c.A
		c.setZN(c.X)
	case 0xA8:
		c.Y = c.A
		c.setZN(c.Y)
	case 0xBA:
		c.X = c.SP
		c.setZN(c.X)
	case 0x8A:
		c.setA(c.X)
	case 0x98:
		c.setA(c.Y)
	case 0x9A:
		c.SP = c.X

	case 0xEA:
		// NOP

	// Undocumented instructions from here down. Each is the
	// combination of official pieces named in its handler.

	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDB, 0xDF:
		c.dcp(op.Mode)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3B, 0x3F:
		c.andA(c.rol(op.Mode))
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1B, 0x1F:
		c.orA(c.asl(op.Mode))
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5B, 0x5F:
		c.eorA(c.lsr(op.Mode))
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7B, 0x7F:
		c.addToA(c.ror(op.Mode))
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFB, 0xFF:
		c.subFromA(c.inc(op.Mode))

	case 0xA7, 0xB7, 0xAF, 0xBF, 0xA3, 0xB3:
		c.lax(op.Mode)
	case 0x87, 0x97, 0x8F, 0x83:
		c.write(c.operandAddress(op.Mode), c.A&c.X)

	case 0x0B, 0x2B:
		c.anc(op.Mode)
	case 0x4B:
		c.alr(op.Mode)
	case 0x6B:
		c.arr(op.Mode)
	case 0xCB:
		c.axs(op.Mode)

	case 0xAB:
		c.lda(op.Mode)
		c.X = c.A
		c.setZN(c.X)
	case 0x8B:
		c.xaa(op.Mode)
	case 0xBB:
		c.las(op.Mode)
	case 0x9B:
		c.tas()
	case 0x93, 0x9F:
		c.ahx(op.Mode)
	case 0x9E:
		c.shx()
	case 0x9C:
		c.shy()

	case 0x04, 0x44, 0x64, 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
		0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
		0x80, 0x82, 0x89, 0xC2, 0xE2:
		// NOP forms that still fetch an operand: resolve, read, discard.
		_ = c.read(c.operandAddress(op.Mode))

	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2,
		0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		// Single-byte NOP forms, including the KIL slots.
	}

	if pc == c.PC {
		c.PC += uint16(op.Size) - 1
	}
	return false
}

// operandAddress resolves the bytes at PC into the effective address
// for the given mode. PC is the address of the first operand byte.
// Pointer reads for the indirect modes wrap entirely within the zero
// page: a pointer at $FF takes its high byte from $00, not $0100.
func (c *CPU) operandAddress(mode AddressingMode) uint16 {
	switch mode {
	case Immediate:
		return c.PC

	case ZeroPage:
		return uint16(c.read(c.PC))

	case ZeroPageX:
		return uint16(c.read(c.PC) + c.X)

	case ZeroPageY:
		return uint16(c.read(c.PC) + c.Y)

	case Absolute:
		return c.readWord(c.PC)

	case AbsoluteX:
		return c.readWord(c.PC) + uint16(c.X)

	case AbsoluteY:
		return c.readWord(c.PC) + uint16(c.Y)

	case IndirectX:
		p := c.read(c.PC) + c.X
		lo := c.read(uint16(p))
		hi := c.read(uint16(p + 1))
		return uint16(hi)<<8 | uint16(lo)

	case IndirectY:
		p := c.read(c.PC)
		lo := c.read(uint16(p))
		hi := c.read(uint16(p + 1))
		base := uint16(hi)<<8 | uint16(lo)
		return base + uint16(c.Y)

	default:
		fail(fmt.Errorf("nes: addressing mode %d is not supported here", mode))
		return 0
	}
}

// ----- stack -----
//
// The stack lives in page 1 at $0100+SP. SP wraps instead of faulting,
// so overflow is silent. Word pushes go high byte first; word pulls
// read low then high.

func (c *CPU) push(v byte) {
	c.write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pull() byte {
	c.SP++
	return c.read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(byte(v >> 8))
	c.push(byte(v))
}

func (c *CPU) pullWord() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

// ----- flag and ALU helpers -----

func (c *CPU) setZN(v byte) {
	c.P.set(FlagZero, v == 0)
	c.P.set(FlagNegative, v&0x80 > 0)
}

func (c *CPU) setA(v byte) {
	c.A = v
	c.setZN(c.A)
}

func (c *CPU) andA(v byte) { c.setA(c.A & v) }
func (c *CPU) orA(v byte)  { c.setA(c.A | v) }
func (c *CPU) eorA(v byte) { c.setA(c.A ^ v) }

// addToA adds v and the carry into A through a 9-bit intermediate.
// Carry is the 9th bit; overflow is set when the operand and the old
// accumulator agree on sign but the result does not.
func (c *CPU) addToA(v byte) {
	sum := uint16(c.A) + uint16(v)
	if c.P.Has(FlagCarry) {
		sum++
	}
	c.P.set(FlagCarry, sum > 0xFF)

	r := byte(sum)
	c.P.set(FlagOverflow, (v^r)&(r^c.A)&0x80 != 0)
	c.setA(r)
}

// subFromA is addToA with the operand's ones' complement, which gives
// borrow semantics in carry: C=1 means no borrow.
func (c *CPU) subFromA(v byte) {
	c.addToA(v ^ 0xFF)
}

func (c *CPU) compare(mode AddressingMode, with byte) {
	v := c.read(c.operandAddress(mode))
	c.P.set(FlagCarry, v <= with)
	c.setZN(with - v)
}

func (c *CPU) doAsl(v byte) byte {
	c.P.set(FlagCarry, v&0x80 > 0)
	v <<= 1
	c.setZN(v)
	return v
}

func (c *CPU) doLsr(v byte) byte {
	c.P.set(FlagCarry, v&1 > 0)
	v >>= 1
	c.setZN(v)
	return v
}

func (c *CPU) doRol(v byte) byte {
	carry := c.P.Has(FlagCarry)
	c.P.set(FlagCarry, v&0x80 > 0)
	v <<= 1
	if carry {
		v |= 1
	}
	c.setZN(v)
	return v
}

func (c *CPU) doRor(v byte) byte {
	carry := c.P.Has(FlagCarry)
	c.P.set(FlagCarry, v&1 > 0)
	v >>= 1
	if carry {
		v |= 0x80
	}
	c.setZN(v)
	return v
}

// ----- official instructions -----

// ADC - Add with Carry. A,Z,C,N,V = A+M+C.
func (c *CPU) adc(mode AddressingMode) {
	c.addToA(c.read(c.operandAddress(mode)))
}

// SBC - Subtract with Carry. A,Z,C,N,V = A-M-(1-C). Decimal mode is
// ignored on this chip.
func (c *CPU) sbc(mode AddressingMode) {
	c.subFromA(c.read(c.operandAddress(mode)))
}

// AND - Logical AND of A and memory.
func (c *CPU) and(mode AddressingMode) {
	c.andA(c.read(c.operandAddress(mode)))
}

// EOR - Exclusive OR of A and memory.
func (c *CPU) eor(mode AddressingMode) {
	c.eorA(c.read(c.operandAddress(mode)))
}

// ORA - Inclusive OR of A and memory.
func (c *CPU) ora(mode AddressingMode) {
	c.orA(c.read(c.operandAddress(mode)))
}

// asl, lsr, rol, ror are the memory forms of the shifts; they return
// the written value because the undocumented combinations reuse it.

func (c *CPU) asl(mode AddressingMode) byte {
	addr := c.operandAddress(mode)
	v := c.doAsl(c.read(addr))
	c.write(addr, v)
	return v
}

func (c *CPU) lsr(mode AddressingMode) byte {
	addr := c.operandAddress(mode)
	v := c.doLsr(c.read(addr))
	c.write(addr, v)
	return v
}

func (c *CPU) rol(mode AddressingMode) byte {
	addr := c.operandAddress(mode)
	v := c.doRol(c.read(addr))
	c.write(addr, v)
	return v
}

func (c *CPU) ror(mode AddressingMode) byte {
	addr := c.operandAddress(mode)
	v := c.doRor(c.read(addr))
	c.write(addr, v)
	return v
}

// branch applies the signed one-byte displacement at PC when the
// condition holds. The displacement is relative to the byte after the
// operand.
func (c *CPU) branch(cond bool) {
	if !cond {
		return
	}
	off := int8(c.read(c.PC))
	c.PC = c.PC + 1 + uint16(off)
}

// BIT - Z from A AND M, but N and V copied straight from bits 7 and 6
// of the operand.
func (c *CPU) bit(mode AddressingMode) {
	v := c.read(c.operandAddress(mode))
	c.P.set(FlagZero, c.A&v == 0)
	c.P.set(FlagNegative, v&0x80 > 0)
	c.P.set(FlagOverflow, v&0x40 > 0)
}

func (c *CPU) dec(mode AddressingMode) byte {
	addr := c.operandAddress(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setZN(v)
	return v
}

func (c *CPU) inc(mode AddressingMode) byte {
	addr := c.operandAddress(mode)
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setZN(v)
	return v
}

// jmpIndirect reproduces the documented page-wrap defect: a pointer at
// $xxFF takes its high byte from $xx00 rather than crossing the page.
func (c *CPU) jmpIndirect() {
	ptr := c.readWord(c.PC)
	if ptr&0x00FF == 0x00FF {
		lo := c.read(ptr)
		hi := c.read(ptr & 0xFF00)
		c.PC = uint16(hi)<<8 | uint16(lo)
		return
	}
	c.PC = c.readWord(ptr)
}

// JSR - push the address of the operand's last byte (return point
// minus one), high byte first, then jump.
func (c *CPU) jsr() {
	c.pushWord(c.PC + 2 - 1)
	c.PC = c.readWord(c.PC)
}

// RTI - pull status (with the same B/B2 masking as PLP), then pull PC.
// Unlike RTS there is no +1 adjustment.
func (c *CPU) rti() {
	c.P = Status(c.pull())
	c.P.set(FlagBreak, false)
	c.P |= FlagBreak2
	c.PC = c.pullWord()
}

func (c *CPU) lda(mode AddressingMode) {
	c.setA(c.read(c.operandAddress(mode)))
}

func (c *CPU) ldx(mode AddressingMode) {
	c.X = c.read(c.operandAddress(mode))
	c.setZN(c.X)
}

func (c *CPU) ldy(mode AddressingMode) {
	c.Y = c.read(c.operandAddress(mode))
	c.setZN(c.Y)
}

// PHP - push a copy of status with B and B2 forced set, the standard
// brk mask.
func (c *CPU) php() {
	c.push(byte(c.P | FlagBreak | FlagBreak2))
}

// PLP - pull status, then force B clear and B2 set.
func (c *CPU) plp() {
	c.P = Status(c.pull())
	c.P.set(FlagBreak, false)
	c.P |= FlagBreak2
}

// ----- undocumented instructions -----

// DCP - DEC memory, then CMP with A.
func (c *CPU) dcp(mode AddressingMode) {
	addr := c.operandAddress(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.P.set(FlagCarry, v <= c.A)
	c.setZN(c.A - v)
}

// LAX - LDA then TAX in one fetch.
func (c *CPU) lax(mode AddressingMode) {
	c.setA(c.read(c.operandAddress(mode)))
	c.X = c.A
}

// ANC - AND immediate, then copy N into C.
func (c *CPU) anc(mode AddressingMode) {
	c.andA(c.read(c.operandAddress(mode)))
	c.P.set(FlagCarry, c.P.Has(FlagNegative))
}

// ALR - AND immediate, then LSR the accumulator.
func (c *CPU) alr(mode AddressingMode) {
	c.andA(c.read(c.operandAddress(mode)))
	c.A = c.doLsr(c.A)
}

// ARR - AND immediate, ROR the accumulator, then set C from bit 6 and
// V from bit 6 xor bit 5 of the result.
func (c *CPU) arr(mode AddressingMode) {
	c.andA(c.read(c.operandAddress(mode)))
	c.A = c.doRor(c.A)

	bit5 := c.A >> 5 & 1
	bit6 := c.A >> 6 & 1
	c.P.set(FlagCarry, bit6 == 1)
	c.P.set(FlagOverflow, bit5^bit6 == 1)
	c.setZN(c.A)
}

// AXS - X = (A AND X) - operand, without borrow; carry as in CMP.
// Also known as SBX.
func (c *CPU) axs(mode AddressingMode) {
	v := c.read(c.operandAddress(mode))
	ax := c.A & c.X
	c.P.set(FlagCarry, v <= ax)
	c.X = ax - v
	c.setZN(c.X)
}

// The instructions below are not reliably specified on real silicon;
// one repeatable behavior is implemented for each.

// XAA - A = X, then AND with the immediate.
func (c *CPU) xaa(mode AddressingMode) {
	c.setA(c.X)
	c.andA(c.read(c.operandAddress(mode)))
}

// LAS - A, X and SP all take memory AND SP.
func (c *CPU) las(mode AddressingMode) {
	v := c.read(c.operandAddress(mode)) & c.SP
	c.A = v
	c.X = v
	c.SP = v
	c.setZN(v)
}

// TAS - SP = A AND X; store SP AND (high byte of target + 1).
func (c *CPU) tas() {
	c.SP = c.A & c.X
	addr := c.readWord(c.PC) + uint16(c.Y)
	c.write(addr, (byte(addr>>8)+1)&c.SP)
}

// AHX - store A AND X AND the high byte of the target address.
func (c *CPU) ahx(mode AddressingMode) {
	var addr uint16
	switch mode {
	case IndirectY:
		p := c.read(c.PC)
		addr = c.readWord(uint16(p)) + uint16(c.Y)
	default: // AbsoluteY
		addr = c.readWord(c.PC) + uint16(c.Y)
	}
	c.write(addr, c.A&c.X&byte(addr>>8))
}

// SHX - store X AND (high byte of target + 1).
func (c *CPU) shx() {
	addr := c.readWord(c.PC) + uint16(c.Y)
	c.write(addr, c.X&(byte(addr>>8)+1))
}

// SHY - store Y AND (high byte of target + 1).
func (c *CPU) shy() {
	addr := c.readWord(c.PC) + uint16(c.X)
	c.write(addr, c.Y&(byte(addr>>8)+1))
}
