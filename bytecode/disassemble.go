package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders ins as one line per instruction, resolving
// constant-pool operands to their literal value for readability.
func Disassemble(ins Instructions, constants []any) string {
	var b strings.Builder
	ip := 0
	for ip < len(ins) {
		op := Opcode(ins[ip])
		fmt.Fprintf(&b, "%04d %-8s", ip, op.Mnemonic())
		if op.HasOperand() {
			operand := ins.ReadOperand(ip)
			fmt.Fprintf(&b, " %d", operand)
			if isConstantOpcode(op) && operand < len(constants) {
				fmt.Fprintf(&b, " ; %v", constants[operand])
			}
		}
		b.WriteByte('\n')
		ip += op.Size()
	}
	return b.String()
}

func isConstantOpcode(op Opcode) bool {
	switch op {
	case OpAddIV, OpAddVI, OpSubIV, OpSubVI, OpMulIV, OpMulVI, OpDivIV, OpDivVI,
		OpLoadInt, OpLoadReal, OpLoadStr, OpLoadSize, OpLoadDuration, OpLoadExt, OpLoadAcl, OpLoadAction:
		return true
	}
	return false
}
