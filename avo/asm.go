package main

import (
	. "github.com/mmcloughlin/avo/build"
	"github.com/mmcloughlin/avo/operand"
)

//go:generate go run . -out ../internal/swisstable/match_amd64.s -stubs ../internal/swisstable/match_stub.go -pkg swisstable

func main() {
	// The SWAR fallback in match_generic.go covers other arches and -tags purego.
	ConstraintExpr("amd64,!purego")

	TEXT("MatchByte", NOSPLIT, "func(c uint8, buffer []byte) (mask uint32, ok bool)")
	Doc(
		"MatchByte returns a bitmask with bit i set when buffer[i] == c, for the",
		"first 16 bytes of buffer. ok is false, with a zero mask, if buffer is",
		"shorter than 16 bytes. Longer buffers are allowed.",
	)
	Comment("Get our input parameters")
	c := Load(Param("c"), GP32())
	ptr := Load(Param("buffer").Base(), GP64())
	n := Load(Param("buffer").Len(), GP64())
	result := GP32()

	Comment("Check len of our input slice, which must be at least 16")
	CMPQ(n, operand.Imm(16))
	JGE(operand.LabelRef("valid"))
	Comment("Input slice too short. Return 0, false")
	ok, err := ReturnIndex(1).Resolve()
	if err != nil {
		panic(err)
	}
	XORL(result, result)
	Store(result, ReturnIndex(0))
	MOVB(operand.Imm(0), ok.Addr)
	RET()

	Label("valid")
	Comment("Input slice is a valid length")

	Comment("Move c into an xmm register")
	x0, x1 := XMM(), XMM()
	MOVD(c, x0)
	Comment("Broadcast c into every byte of the register. SSE2 only, no PSHUFB")
	PUNPCKLBW(x0, x0)
	PUNPCKLBW(x0, x0)
	PSHUFL(operand.Imm(0), x0, x0)
	Comment("Do an unaligned move of 16 bytes of input slice data to xmm register")
	Comment("MOVOU is how MOVDQU is spelled in Go asm")
	MOVOU(operand.Mem{Base: ptr}, x1)

	Comment("Find matching bytes with result in xmm register")
	PCMPEQB(x1, x0)

	Comment("Collapse matching bytes result down to an integer bitmask")
	PMOVMSKB(x0, result)

	Comment("Return bitmask, true")
	Store(result, ReturnIndex(0))
	MOVB(operand.Imm(1), ok.Addr)
	RET()
	Generate()
}
