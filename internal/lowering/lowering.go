// Package lowering builds an in-memory LLVM module from a residual
// program and its precomputed execution state (spec §6, §11.1). It plays
// the role original_source/src/main.rs's llvm.rs module plays around
// llvm_sys, but against github.com/llir/llvm's pure-Go IR builder instead
// of linking the real LLVM C API. The result is intentionally thin: no
// register allocation, no target-specific scheduling, no real
// optimization passes — actual machine-code generation stays external to
// the core, per spec §1.
package lowering

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	bfir "bfc/internal/ir"
	"bfc/internal/speculate"
)

// Lower builds a Module that resumes execution at residual, starting the
// tape from state.Cells and the head from state.CellPtr, and printing
// state.Outputs before entering the residual program — exactly the
// backend contract spec §6 describes. sourceName only annotates the
// module; targetTriple is forwarded verbatim ("" leaves llir's default).
func Lower(sourceName string, residual bfir.Program, state speculate.ExecutionState, targetTriple string) *ir.Module {
	m := ir.NewModule()
	m.SourceFilename = sourceName
	if targetTriple != "" {
		m.TargetTriple = targetTriple
	}

	tapeLen := len(state.Cells)
	if tapeLen == 0 {
		tapeLen = 1
	}
	tapeType := types.NewArray(uint64(tapeLen), types.I8)
	tape := m.NewGlobalDef("tape", initialTape(state.Cells, tapeType))

	getchar := m.NewFunc("getchar", types.I32)
	putchar := m.NewFunc("putchar", types.I32, ir.NewParam("c", types.I32))

	main := m.NewFunc("main", types.I32)
	entry := main.NewBlock("entry")

	l := &lowerer{tape: tape, tapeType: tapeType, getchar: getchar, putchar: putchar}
	l.head = entry.NewAlloca(types.I64)
	entry.NewStore(constant.NewInt(types.I64, int64(state.CellPtr)), l.head)

	cur := entry
	for _, b := range state.Outputs {
		cur.NewCall(putchar, constant.NewInt(types.I32, int64(b)))
	}

	cur = l.emit(cur, residual)
	cur.NewRet(constant.NewInt(types.I32, 0))

	return m
}

func initialTape(cells []int8, tapeType *types.ArrayType) constant.Constant {
	n := int(tapeType.Len)
	elems := make([]constant.Constant, n)
	for i := range elems {
		var v int8
		if i < len(cells) {
			v = cells[i]
		}
		elems[i] = constant.NewInt(types.I8, int64(v))
	}
	return constant.NewArray(tapeType, elems...)
}

// lowerer carries the state shared across a single Lower call: the tape
// global, the head alloca, and the I/O declarations every instruction
// needs.
type lowerer struct {
	tape     *ir.Global
	tapeType *types.ArrayType
	head     *ir.InstAlloca
	getchar  *ir.Func
	putchar  *ir.Func
	loopID   int
}

// emit lowers p's instructions into cur (and any blocks it spawns for
// Loop), returning the block control falls through to afterward.
func (l *lowerer) emit(cur *ir.Block, p bfir.Program) *ir.Block {
	for _, instr := range p {
		switch instr.Kind {
		case bfir.Increment:
			ptr := l.cellPtr(cur, instr.Offset)
			old := cur.NewLoad(types.I8, ptr)
			sum := cur.NewAdd(old, constant.NewInt(types.I8, int64(instr.Amount)))
			cur.NewStore(sum, ptr)

		case bfir.Set:
			ptr := l.cellPtr(cur, instr.Offset)
			cur.NewStore(constant.NewInt(types.I8, int64(instr.Amount)), ptr)

		case bfir.PointerMove:
			h := cur.NewLoad(types.I64, l.head)
			next := cur.NewAdd(h, constant.NewInt(types.I64, int64(instr.Delta)))
			cur.NewStore(next, l.head)

		case bfir.Read:
			c := cur.NewCall(l.getchar)
			truncated := cur.NewTrunc(c, types.I8)
			cur.NewStore(truncated, l.cellPtr(cur, 0))

		case bfir.Write:
			v := cur.NewLoad(types.I8, l.cellPtr(cur, 0))
			cur.NewCall(l.putchar, cur.NewSExt(v, types.I32))

		case bfir.MultiplyMove:
			srcPtr := l.cellPtr(cur, 0)
			src := cur.NewLoad(types.I8, srcPtr)
			for k, v := range instr.Changes {
				dstPtr := l.cellPtr(cur, k)
				old := cur.NewLoad(types.I8, dstPtr)
				scaled := cur.NewMul(src, constant.NewInt(types.I8, int64(v)))
				cur.NewStore(cur.NewAdd(old, scaled), dstPtr)
			}
			cur.NewStore(constant.NewInt(types.I8, 0), srcPtr)

		case bfir.Loop:
			cur = l.emitLoop(cur, instr)
		}
	}
	return cur
}

func (l *lowerer) emitLoop(cur *ir.Block, instr bfir.Instruction) *ir.Block {
	l.loopID++
	id := l.loopID
	fn := cur.Parent

	header := fn.NewBlock(fmt.Sprintf("loop.header.%d", id))
	body := fn.NewBlock(fmt.Sprintf("loop.body.%d", id))
	after := fn.NewBlock(fmt.Sprintf("loop.after.%d", id))

	cur.NewBr(header)

	cond := header.NewICmp(enum.IPredNE, header.NewLoad(types.I8, l.cellPtr(header, 0)), constant.NewInt(types.I8, 0))
	header.NewCondBr(cond, body, after)

	bodyEnd := l.emit(body, instr.Body)
	bodyEnd.NewBr(header)

	return after
}

// cellPtr computes a pointer to the tape cell at head+offset in cur.
func (l *lowerer) cellPtr(cur *ir.Block, offset int) value.Value {
	h := cur.NewLoad(types.I64, l.head)
	idx := value.Value(h)
	if offset != 0 {
		idx = cur.NewAdd(h, constant.NewInt(types.I64, int64(offset)))
	}
	return cur.NewGetElementPtr(l.tapeType, l.tape, constant.NewInt(types.I64, 0), idx)
}

// OptimizeLevel is a best-effort placeholder for the original's
// LLVMOpt/PassManager pipeline: llir/llvm is a pure IR builder with no
// bundled optimization passes, so there is nothing to run here beyond
// clamping the requested level into the documented [0,3] range the CLI
// accepts. Real optimization is left to whatever external toolchain
// consumes the emitted module.
func OptimizeLevel(requested int) int {
	if requested < 0 || requested > 3 {
		return 3
	}
	return requested
}
