package cp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTruncatedPacket = errors.New("cp: truncated packet")
	ErrBadHeader       = errors.New("cp: unrecognized packet header")
)

// PacketKind distinguishes decoded packet classes.
type PacketKind uint8

const (
	KindType4 PacketKind = iota
	KindType7
)

// Packet is one decoded command packet.
type Packet struct {
	Kind    PacketKind
	Op      Opcode // type-7 only
	Reg     uint32 // type-4 only
	Payload []uint32
}

// Decode splits a composed stream back into packets. Used by diagnostics and
// tests only; the compiler never re-reads what it wrote.
func Decode(words []uint32) ([]Packet, error) {
	packets := make([]Packet, 0)
	i := 0
	for i < len(words) {
		hdr := words[i]
		switch hdr >> 28 {
		case 0x7:
			count := int(hdr & 0x3FFF)
			op := Opcode(hdr >> 16 & 0x7F)
			if i+1+count > len(words) {
				return nil, fmt.Errorf("%w: type7 %s at word %d wants %d payload words", ErrTruncatedPacket, op, i, count)
			}
			packets = append(packets, Packet{Kind: KindType7, Op: op, Payload: words[i+1 : i+1+count]})
			i += 1 + count
		case 0x4:
			count := int(hdr & 0x7F)
			reg := hdr >> 8 & 0x3FFFF
			if i+1+count > len(words) {
				return nil, fmt.Errorf("%w: type4 reg=%#x at word %d wants %d payload words", ErrTruncatedPacket, reg, i, count)
			}
			packets = append(packets, Packet{Kind: KindType4, Reg: reg, Payload: words[i+1 : i+1+count]})
			i += 1 + count
		default:
			return nil, fmt.Errorf("%w: %#08x at word %d", ErrBadHeader, hdr, i)
		}
	}
	return packets, nil
}

func (p Packet) String() string {
	var sb strings.Builder
	if p.Kind == KindType4 {
		fmt.Fprintf(&sb, "REG_WRITE reg=%#05x", p.Reg)
	} else {
		sb.WriteString(p.Op.String())
	}
	for _, w := range p.Payload {
		fmt.Fprintf(&sb, " %#08x", w)
	}
	return sb.String()
}

// Listing renders a stream one packet per line for logs and the CLI.
func Listing(words []uint32) (string, error) {
	packets, err := Decode(words)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(packets))
	for _, p := range packets {
		lines = append(lines, p.String())
	}
	return strings.Join(lines, "\n"), nil
}

// Opcodes lists the type-7 opcode of every packet in order. Type-4 register
// writes are omitted. Structural tests use this to assert ordering without
// caring about payloads.
func Opcodes(words []uint32) ([]Opcode, error) {
	packets, err := Decode(words)
	if err != nil {
		return nil, err
	}
	ops := make([]Opcode, 0, len(packets))
	for _, p := range packets {
		if p.Kind == KindType7 {
			ops = append(ops, p.Op)
		}
	}
	return ops, nil
}
