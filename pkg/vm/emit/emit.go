// Package emit assembles NeoVM3 scripts instruction by instruction
// onto a io.BinWriter, without executing them.
package emit

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/vm/interopnames"
	"github.com/n3lib/core/pkg/vm/opcode"
)

// Opcodes emits a sequence of bare opcodes with no operands.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		w.WriteB(byte(op))
	}
}

// Instruction emits a single opcode followed by its raw operand.
func Instruction(w *io.BinWriter, op opcode.Opcode, operand []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(operand)
}

// Bytes emits the most compact instruction pushing b: PUSH0 for empty
// data, the smallest fitting PUSHDATA otherwise.
func Bytes(w *io.BinWriter, b []byte) {
	n := len(b)
	switch {
	case n == 0:
		Opcodes(w, opcode.PUSH0)
		return
	case n <= 255:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n <= 65535:
		buf := make([]byte, 2)
		buf[0] = byte(n)
		buf[1] = byte(n >> 8)
		Instruction(w, opcode.PUSHDATA2, buf)
	default:
		buf := make([]byte, 4)
		buf[0] = byte(n)
		buf[1] = byte(n >> 8)
		buf[2] = byte(n >> 16)
		buf[3] = byte(n >> 24)
		Instruction(w, opcode.PUSHDATA4, buf)
	}
	w.WriteBytes(b)
}

// String emits b's UTF-8 bytes as PUSHDATA.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Int emits the most compact instruction that pushes v: PUSHM1/PUSH0..
// PUSH16 for the small constants, PUSHINTn (little-endian two's
// complement) otherwise.
func Int(w *io.BinWriter, v int64) {
	switch {
	case v == -1:
		Opcodes(w, opcode.PUSHM1)
		return
	case v >= 0 && v <= 16:
		Opcodes(w, opcode.Opcode(byte(opcode.PUSH0)+byte(v)))
		return
	}
	BigInt(w, big.NewInt(v))
}

// BigInt emits the smallest PUSHINTn instruction that represents v.
func BigInt(w *io.BinWriter, v *big.Int) {
	if v.IsInt64() {
		n := v.Int64()
		if n == -1 {
			Opcodes(w, opcode.PUSHM1)
			return
		}
		if n >= 0 && n <= 16 {
			Opcodes(w, opcode.Opcode(byte(opcode.PUSH0)+byte(n)))
			return
		}
	}

	b := twosComplementLE(v)
	switch {
	case len(b) <= 1:
		Instruction(w, opcode.PUSHINT8, pad(b, 1))
	case len(b) <= 2:
		Instruction(w, opcode.PUSHINT16, pad(b, 2))
	case len(b) <= 4:
		Instruction(w, opcode.PUSHINT32, pad(b, 4))
	case len(b) <= 8:
		Instruction(w, opcode.PUSHINT64, pad(b, 8))
	case len(b) <= 16:
		Instruction(w, opcode.PUSHINT128, pad(b, 16))
	default:
		Instruction(w, opcode.PUSHINT256, pad(b, 32))
	}
}

// Bool emits PUSH1/PUSH0 for true/false.
func Bool(w *io.BinWriter, b bool) {
	if b {
		Opcodes(w, opcode.PUSH1)
	} else {
		Opcodes(w, opcode.PUSH0)
	}
}

// Syscall emits a SYSCALL instruction identifying the interop method
// by the 4-byte hash of its name, per the syscall-naming convention
// used throughout NeoVM3 (interop methods have no fixed numeric IDs).
func Syscall(w *io.BinWriter, api string) {
	id := interopnames.ToID([]byte(api))
	buf := []byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)}
	Instruction(w, opcode.SYSCALL, buf)
}

// Call emits a CALLT instruction invoking token-indexed method tok.
func Call(w *io.BinWriter, tok uint16) {
	Instruction(w, opcode.CALLT, []byte{byte(tok), byte(tok >> 8)})
}

// Array emits instructions that build a NeoVM array out of an
// emitable Go value: a scalar pushes a single item, a slice pushes
// its elements in reverse order followed by NEWARRAY0/PACK.
func Array(w *io.BinWriter, arr any) {
	switch t := arr.(type) {
	case []any:
		emitArraySlice(w, len(t), func(i int) any { return t[i] })
		return
	case nil:
		Opcodes(w, opcode.PUSHNULL)
		return
	}

	rv := reflect.ValueOf(arr)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		emitArraySlice(w, rv.Len(), func(i int) any { return rv.Index(i).Interface() })
		return
	}

	switch t := arr.(type) {
	case int64:
		Int(w, t)
	case int:
		Int(w, int64(t))
	case *big.Int:
		BigInt(w, t)
	case []byte:
		Bytes(w, t)
	case string:
		String(w, t)
	case bool:
		Bool(w, t)
	case util.Uint160:
		Bytes(w, t.BytesBE())
	case util.Uint256:
		Bytes(w, t.BytesBE())
	default:
		panic(fmt.Sprintf("emit.Array: unsupported argument type %T", arr))
	}
}

// AppCall emits a script that pushes args and the method name, then
// invokes CALLA against a contract already pushed on the stack by the
// caller. It is a thin convenience used by higher-level builders.
func AppCall(w *io.BinWriter) {
	Opcodes(w, opcode.CALLA)
}

func emitArraySlice(w *io.BinWriter, n int, at func(int) any) {
	if n == 0 {
		Opcodes(w, opcode.NEWARRAY0)
		return
	}
	for i := n - 1; i >= 0; i-- {
		Array(w, at(i))
	}
	Int(w, int64(n))
	Opcodes(w, opcode.PACK)
}

// twosComplementLE returns v encoded as a minimal little-endian two's
// complement integer.
func twosComplementLE(v *big.Int) []byte {
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	be := abs.Bytes()

	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}

	if neg {
		for i := range le {
			le[i] = ^le[i]
		}
		for i := 0; i < len(le); i++ {
			le[i]++
			if le[i] != 0 {
				break
			}
		}
	}

	// Ensure the sign bit of the top byte matches the number's sign;
	// grow by one byte if the naive encoding would misrepresent it.
	if len(le) == 0 {
		le = []byte{0}
	}
	top := le[len(le)-1]
	if neg && top < 0x80 {
		le = append(le, 0xFF)
	} else if !neg && top >= 0x80 {
		le = append(le, 0x00)
	}
	return le
}

func pad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	fill := byte(0x00)
	if len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		fill = 0xFF
	}
	for i := len(b); i < n; i++ {
		out[i] = fill
	}
	return out
}
