package nes

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble writes a one-line, nestest-style rendering of the
// instruction at the program counter together with the register file.
// It reads through the bus and performs no side effects, so it
// composes with the run callback for whole-program traces:
//
//	cpu.RunWithCallback(func(c *nes.CPU) { nes.Disassemble(os.Stdout, c) })
func Disassemble(w io.Writer, c *CPU) {
	code := c.read(c.PC)
	op, ok := opcodeMap[code]
	if !ok {
		fmt.Fprintf(w, "%04X  %02X      ???\n", c.PC, code)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X  ", c.PC)

	switch op.Size {
	case 1:
		fmt.Fprintf(&sb, "%02X      ", code)
	case 2:
		fmt.Fprintf(&sb, "%02X %02X   ", code, c.read(c.PC+1))
	case 3:
		fmt.Fprintf(&sb, "%02X %02X %02X", code, c.read(c.PC+1), c.read(c.PC+2))
	}

	if op.Illegal {
		sb.WriteString(" *")
	} else {
		sb.WriteString("  ")
	}
	sb.WriteString(op.Name)

	if operand := operandString(c, op); operand != "" {
		sb.WriteByte(' ')
		sb.WriteString(operand)
	}

	for sb.Len() < 48 {
		sb.WriteByte(' ')
	}

	fmt.Fprintf(w, "%s A:%02X X:%02X Y:%02X P:%02X SP:%02X\n",
		sb.String(), c.A, c.X, c.Y, byte(c.P), c.SP)
}

func operandString(c *CPU, op *Instruction) string {
	if op.Mode != NoneAddressing {
		var arg uint16
		switch op.Mode {
		case Immediate, ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY:
			arg = uint16(c.read(c.PC + 1))
		case Absolute, AbsoluteX, AbsoluteY:
			arg = uint16(c.read(c.PC+1)) | uint16(c.read(c.PC+2))<<8
		}
		return fmt.Sprintf(addressingFormats[op.Mode], arg)
	}

	// NoneAddressing still covers accumulator shifts, jumps, and
	// branches; each renders its own way.
	switch op.OpCode {
	case 0x0A, 0x2A, 0x4A, 0x6A:
		return "A"
	case 0x4C, 0x20:
		return fmt.Sprintf("$%04X", uint16(c.read(c.PC+1))|uint16(c.read(c.PC+2))<<8)
	case 0x6C:
		return fmt.Sprintf("($%04X)", uint16(c.read(c.PC+1))|uint16(c.read(c.PC+2))<<8)
	}

	if op.Size == 2 { // branch: show the resolved target
		off := int8(c.read(c.PC + 1))
		return fmt.Sprintf("$%04X", c.PC+2+uint16(off))
	}

	return ""
}

var addressingFormats = map[AddressingMode]string{
	Immediate: "#$%02X",    // #aa
	ZeroPage:  "$%02X",     // aa
	ZeroPageX: "$%02X,X",   // aa,X
	ZeroPageY: "$%02X,Y",   // aa,Y
	Absolute:  "$%04X",     // aaaa
	AbsoluteX: "$%04X,X",   // aaaa,X
	AbsoluteY: "$%04X,Y",   // aaaa,Y
	IndirectX: "($%02X,X)", // (aa,X)
	IndirectY: "($%02X),Y", // (aa),Y
}
