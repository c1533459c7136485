// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/m65832/cpu"
)

// MAX_PASSES bounds the passes spent settling forward label addresses.
const MAX_PASSES = 8

// RESET_STATUS is the width state assumed at the start of a source.
const RESET_STATUS = cpu.FLAG_E | cpu.FLAG_M8 | cpu.FLAG_X8

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

type reference struct {
	Name   string
	LineNo int
	Line   string
}

// Assembler is a multiple pass macro assembler for the M65832.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembled listing.
	Statement []Statement // List of assembled statements.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	pc       uint32
	status   cpu.Status
	previous map[string]uint32 // Labels of the previous pass.
	forward  []reference       // Names no pass has defined yet.
	deferred error             // First range error of this pass.
	lineno   int
	line     string
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	hexRe   = regexp.MustCompile(`\$([0-9A-Fa-f]+)`)
	binRe   = regexp.MustCompile(`(^|[^\w)\]])%([01]+)`)
	identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	charRe  = regexp.MustCompile(`'\\?[^']'`)
	parenRe = regexp.MustCompile(`\$\([^\$]*\)`)
)

// literal rewrites $hex and %binary numbers in Starlark notation.
func literal(expr string) string {
	expr = hexRe.ReplaceAllString(expr, "0x$1")
	return binRe.ReplaceAllString(expr, "${1}0b$2")
}

// identifiers returns the spans of the names in text, skipping the
// letters of numeric literals and of directives.
func identifiers(text string) (spans [][]int) {
	for _, span := range identRe.FindAllStringIndex(text, -1) {
		if span[0] > 0 {
			c := text[span[0]-1]
			switch {
			case c == '$', c == '%', c == '.', c == '\'', c == '"':
				continue
			case c >= '0' && c <= '9':
				continue
			}
		}
		spans = append(spans, span)
	}
	return
}

var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "if": true, "else": true,
	"in": true, "for": true, "lambda": true,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(word, 0, 34)
	if err != nil || v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	if invert {
		value = ^value
	}

	return
}

// evaluate returns the value of an operand expression.
func (asm *Assembler) evaluate(expr string) (value uint32, err error) {
	expr = literal(strings.TrimSpace(expr))
	if expr == "" {
		err = ErrOpcodeValueMissing
		return
	}
	value, err = asm.valueOf(expr)
	if err == nil {
		return
	}
	return asm.parenEval(expr)
}

// parenEval does compile-time expression evaluations. Names that no
// pass has defined evaluate to the current address and are recorded as
// forward references.
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	expr = literal(expr)

	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(literal(str))
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeUint64(uint64(value32))
	}
	for key, addr := range asm.previous {
		pred[key] = starlark.MakeUint64(uint64(addr))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeUint64(uint64(addr))
	}
	for _, span := range identifiers(expr) {
		name := expr[span[0]:span[1]]
		_, defined := pred[name]
		_, universal := starlark.Universe[name]
		if defined || universal || keywords[name] {
			continue
		}
		pred[name] = starlark.MakeUint64(uint64(asm.pc))
		asm.forward = append(asm.forward, reference{Name: name, LineNo: asm.lineno, Line: asm.line})
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > 0xffffffff || st_int64 < -int64(0x80000000) {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// substitute replaces equate names in text with their values.
func (asm *Assembler) substitute(text string) string {
	for range 8 {
		spans := identifiers(text)
		changed := false
		for n := len(spans) - 1; n >= 0; n-- {
			span := spans[n]
			equate, ok := asm.Equate[text[span[0]:span[1]]]
			if !ok {
				continue
			}
			text = text[:span[0]] + equate + text[span[1]:]
			changed = true
		}
		if !changed {
			break
		}
	}
	return text
}

// parseLine parses a single line into words, defining its labels and
// expanding macros.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		words[n] = asm.substitute(word)
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.pc
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		// Each expansion gets its own local label prefix.
		local := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	asm.previous = nil
	for range MAX_PASSES {
		err = asm.pass(lines)
		if err != nil {
			return
		}
		if len(asm.forward) == 0 && maps.Equal(asm.Label, asm.previous) {
			break
		}
		asm.previous = maps.Clone(asm.Label)
	}

	if len(asm.forward) != 0 {
		ref := asm.forward[0]
		err = &ErrSyntax{LineNo: ref.LineNo, Line: ref.Line, Err: ErrLabelMissing(ref.Name)}
		return
	}

	if asm.deferred != nil {
		err = asm.deferred
		return
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
		Labels:     maps.Clone(asm.Label),
	}

	if asm.Verbose {
		for _, st := range prog.Statements {
			log.Printf("%06X: % -14X %v", st.Addr, st.Code, strings.Join(st.Words, " "))
		}
	}

	return
}

// pass assembles all the lines once.
func (asm *Assembler) pass(lines []string) (err error) {
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: asm.lineno, Line: asm.line, Err: err}
		}
	}()

	asm.Label = make(map[string]uint32, len(asm.previous))
	asm.Statement = nil
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)
	asm.pc = 0
	asm.status = RESET_STATUS
	asm.forward = nil
	asm.deferred = nil

	for n, text := range lines {
		asm.lineno = n + 1

		text_comment, _, _ := strings.Cut(text, ";")
		asm.line = strings.TrimSpace(text_comment)
		words := strings.Fields(asm.line)

		// .macro NAME arg...
		if len(words) > 0 && strings.EqualFold(words[0], ".macro") {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: asm.lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.EqualFold(words[0], ".endm") {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, asm.line)
			continue
		}

		words, err = asm.parseLine(asm.line, asm.lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, asm.lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	return
}

// soft records an error that a later pass may resolve, such as a
// branch to a label whose address has not settled.
func (asm *Assembler) soft(err error) {
	if asm.deferred == nil {
		asm.deferred = &ErrSyntax{LineNo: asm.lineno, Line: asm.line, Err: err}
	}
}

// assume replaces the width bits selected by mask, leaving emulation.
func (asm *Assembler) assume(flags, mask cpu.Status) {
	asm.status = asm.status&^(mask|cpu.FLAG_E) | flags
}

// data emits comma separated values of size bytes each.
func (asm *Assembler) data(operand string, size int) (code []byte, err error) {
	parts := splitOperands(operand)
	if len(parts) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	for _, part := range parts {
		var value uint32
		value, err = asm.evaluate(part)
		if err != nil {
			return
		}
		if !fits(value, size) {
			asm.soft(cpu.ErrOperandRange)
		}
		for i := range size {
			code = append(code, byte(value>>(8*i)))
		}
	}
	return
}

// parseWords assembles the words of a line at the current address.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	head := words[0]
	operand := strings.Join(words[1:], " ")
	addr := asm.pc

	var code []byte
	switch strings.ToLower(head) {
	case ".org":
		asm.pc, err = asm.evaluate(operand)
		return
	case ".byte":
		code, err = asm.data(operand, 1)
	case ".word":
		code, err = asm.data(operand, 2)
	case ".long":
		code, err = asm.data(operand, 4)
	case ".ascii":
		var text string
		text, err = strconv.Unquote(operand)
		if err != nil {
			err = ErrDirectiveInvalid
			return
		}
		code = []byte(text)
	case ".a8":
		asm.assume(cpu.FLAG_M8, cpu.FLAG_M8|cpu.FLAG_M32)
	case ".a16":
		asm.assume(0, cpu.FLAG_M8|cpu.FLAG_M32)
	case ".a32":
		asm.assume(cpu.FLAG_M32, cpu.FLAG_M8|cpu.FLAG_M32)
	case ".i8":
		asm.assume(cpu.FLAG_X8, cpu.FLAG_X8|cpu.FLAG_X32)
	case ".i16":
		asm.assume(0, cpu.FLAG_X8|cpu.FLAG_X32)
	case ".i32":
		asm.assume(cpu.FLAG_X32, cpu.FLAG_X8|cpu.FLAG_X32)
	default:
		if strings.HasPrefix(head, ".") {
			err = ErrDirectiveInvalid
			return
		}
		var ins cpu.Instruction
		ins, err = asm.instruction(head, operand)
		if err != nil {
			return
		}
		code, err = ins.Encode()
		if err != nil {
			return
		}
		asm.status = track(asm.status, ins)
	}
	if err != nil {
		return
	}

	if len(code) > 0 {
		asm.Statement = append(asm.Statement, Statement{
			LineNo: lineno,
			Addr:   addr,
			Words:  slices.Clone(words),
			Code:   code,
		})
	}
	asm.pc += uint32(len(code))

	return
}

// track follows the effect of an instruction on the width flags.
func track(p cpu.Status, ins cpu.Instruction) cpu.Status {
	if ins.Form != cpu.FORM_PRIMARY && ins.Form != cpu.FORM_EXTENDED {
		return p
	}
	switch ins.Mnemonic {
	case cpu.CLC:
		p &^= cpu.FLAG_C
	case cpu.SEC:
		p |= cpu.FLAG_C
	case cpu.REP:
		p = p.WithLow(p.Low() &^ byte(ins.Value))
	case cpu.SEP:
		p = p.WithLow(p.Low() | byte(ins.Value))
	case cpu.SEPE:
		p = p.WithHigh(byte(p>>8) | byte(ins.Value))
	case cpu.REPE:
		p = p.WithHigh(byte(p>>8) &^ byte(ins.Value))
	case cpu.XCE:
		carry, emulation := p&cpu.FLAG_C != 0, p&cpu.FLAG_E != 0
		p &^= cpu.FLAG_C | cpu.FLAG_E
		if emulation {
			p |= cpu.FLAG_C
		}
		if carry {
			p |= cpu.FLAG_E
		}
		p = p.WithLow(p.Low())
	}
	return p
}

// fits reports whether value is representable in width bytes, either
// as an unsigned or as a sign-extended number.
func fits(value uint32, width int) bool {
	if width >= 4 {
		return true
	}
	limit := uint32(1) << (8 * width)
	return value < limit || value >= -(limit/2)
}

// splitOperands splits text at the commas outside of brackets.
func splitOperands(text string) (parts []string) {
	depth := 0
	start := 0
	for n, c := range text {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:n]))
				start = n + 1
			}
		}
	}
	if last := strings.TrimSpace(text[start:]); last != "" || len(parts) > 0 {
		parts = append(parts, last)
	}
	return
}
