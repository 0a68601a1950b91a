package smartcontract

import (
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/smartcontract/callflag"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/vm/emit"
	"github.com/n3lib/core/pkg/vm/interopnames"
)

// Builder assembles a NeoVM3 invocation script instruction by
// instruction, accumulating one or more contract calls.
type Builder struct {
	bw *io.BufBinWriter
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{bw: io.NewBufBinWriter()}
}

// InvokeMethod appends a call to method on contract with the given
// arguments and callflag.All privileges, converting each argument via
// NewParameterFromValue.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, args ...interface{}) *Builder {
	return b.InvokeMethodWithFlags(contract, method, callflag.All, args...)
}

// InvokeMethodWithFlags appends a call to method on contract, scoped
// to the given call flags.
func (b *Builder) InvokeMethodWithFlags(contract util.Uint160, method string, f callflag.CallFlag, args ...interface{}) *Builder {
	emitArgs := make([]any, len(args))
	for i, a := range args {
		p, err := NewParameterFromValue(a)
		if err != nil {
			b.bw.SetError(err)
			return b
		}
		v, err := ExpandParameterToEmitable(*p)
		if err != nil {
			b.bw.SetError(err)
			return b
		}
		emitArgs[i] = v
	}
	emit.Array(b.bw.BinWriter, emitArgs)
	emit.Int(b.bw.BinWriter, int64(f))
	emit.String(b.bw.BinWriter, method)
	emit.Bytes(b.bw.BinWriter, contract.BytesBE())
	emit.Syscall(b.bw.BinWriter, interopnames.SystemContractCall)
	return b
}

// Len returns the number of bytes accumulated so far.
func (b *Builder) Len() int {
	return b.bw.Len()
}

// Reset discards everything written so far.
func (b *Builder) Reset() {
	b.bw.Reset()
}

// Script returns the accumulated script, or any error raised while
// building it.
func (b *Builder) Script() ([]byte, error) {
	if err := b.bw.Err(); err != nil {
		return nil, err
	}
	return b.bw.Bytes(), nil
}
