// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

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

	"github.com/ezrec/m6502/memory"
)

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

// EQUATE_DEPTH limits equates defined in terms of other equates.
const EQUATE_DEPTH = 16

// Assembler is a single pass macro assembler for the 6502.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of assembled statements.

	predefine map[string]string   // Predefines
	Label     map[string]uint16   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	pc        int // Address of the next statement.
	expansion int // Count of macro expansions, for unique @ labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// mnemonics maps instruction names to operations.
var mnemonics = func() map[string]Operation {
	ops := make(map[string]Operation, int(OP_TYA))
	for op := OP_ADC; op <= OP_TYA; op++ {
		ops[op.String()] = op
	}
	return ops
}()

var (
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reParen      = regexp.MustCompile(`\$\([^\$]*\)`)
)

// valueOf returns the value of a numeric literal.
//
// Accepted forms are $hex, %binary, and anything strconv.ParseInt
// accepts with base 0, each optionally negated.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	digits := word
	negate := strings.HasPrefix(digits, "-")
	if negate {
		digits = digits[1:]
	}

	base := 0
	switch {
	case strings.HasPrefix(digits, "$"):
		base = 16
		digits = digits[1:]
	case strings.HasPrefix(digits, "%"):
		base = 2
		digits = digits[1:]
	}

	v64, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if negate {
		value = -value
	}

	return
}

// term returns the value of a number, equate, or label.
// Labels not yet defined are returned in label.
func (asm *Assembler) term(word string, depth int) (value int, label string, err error) {
	if len(word) == 0 {
		err = ErrOperandInvalid
		return
	}

	value, err = asm.valueOf(word)
	if err == nil || !reIdentifier.MatchString(word) {
		return
	}
	err = nil

	equ, ok := asm.Equate[word]
	if ok {
		if depth >= EQUATE_DEPTH {
			err = ErrEquateSyntax
			return
		}
		return asm.term(equ, depth+1)
	}

	addr, ok := asm.Label[word]
	if ok {
		value = int(addr)
		return
	}

	label = word
	return
}

// operand returns the value of an expression with an optional low byte (<)
// or high byte (>) selector.
func (asm *Assembler) operand(expr string) (value int, label string, kind LinkKind, err error) {
	kind = LINK_WORD
	switch {
	case strings.HasPrefix(expr, "<"):
		kind = LINK_LOW
		expr = expr[1:]
	case strings.HasPrefix(expr, ">"):
		kind = LINK_HIGH
		expr = expr[1:]
	}

	value, label, err = asm.term(expr, 0)
	if err != nil || len(label) != 0 {
		return
	}

	switch kind {
	case LINK_LOW:
		value &= 0xFF
	case LINK_HIGH:
		value = (value >> 8) & 0xFF
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v, label, terr := asm.term(str, 0)
		if terr != nil || len(label) != 0 {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// stripComment removes a trailing ';' comment, outside of any string or
// character literal.
func stripComment(text string) string {
	var quote rune
	for n, c := range text {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ';':
			return text[:n]
		}
	}
	return text
}

// outsideStrings applies fn to the parts of line that are not inside a
// double quoted string. Character literals are kept whole, so a '"' does
// not start a string.
func outsideStrings(line string, fn func(string) string) string {
	var out strings.Builder
	var quote rune
	start := 0
	for n, c := range line {
		switch {
		case quote != 0:
			if c != quote {
				break
			}
			quote = 0
			if c == '"' {
				out.WriteString(line[start : n+1])
				start = n + 1
			}
		case c == '\'':
			quote = c
		case c == '"':
			out.WriteString(fn(line[start:n]))
			start = n
			quote = c
		}
	}

	if quote == '"' {
		out.WriteString(line[start:])
	} else {
		out.WriteString(fn(line[start:]))
	}

	return out.String()
}

// splitWords splits a line on white space, keeping strings whole.
func splitWords(line string) (words []string) {
	var word strings.Builder
	quoted := false
	for _, c := range line {
		switch {
		case c == '"':
			quoted = !quoted
			word.WriteRune(c)
		case (c == ' ' || c == '\t') && !quoted:
			if word.Len() > 0 {
				words = append(words, word.String())
				word.Reset()
			}
		default:
			word.WriteRune(c)
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}
	return
}

// splitArgs splits directive arguments on commas, keeping strings whole.
func splitArgs(text string) (args []string) {
	quoted := false
	start := 0
	for n, c := range text {
		switch {
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			args = append(args, strings.TrimSpace(text[start:n]))
			start = n + 1
		}
	}
	args = append(args, strings.TrimSpace(text[start:]))
	return
}

// parseLine parses a single line into words, handling equates, labels,
// and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = outsideStrings(line, func(text string) string {
		return reCharacter.ReplaceAllStringFunc(text, func(word string) string {
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
	})

	// Do $() evaluations
	line = outsideStrings(line, func(text string) string {
		return reParen.ReplaceAllStringFunc(text, func(str string) string {
			value, _err := asm.parenEval(str[2 : len(str)-1])
			if _err != nil {
				err = _err
			}
			return fmt.Sprintf("%d", value)
		})
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 || !reIdentifier.MatchString(words[1]) {
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
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reIdentifier.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = uint16(asm.pc)
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
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

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

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.pc = 0
	asm.expansion = 0
	asm.Statement = asm.Statement[:0]
	asm.Label = make(map[string]uint16)
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
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
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of forward labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]
		for _, link := range st.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				err = ErrLabelMissing(link.Label)
			} else {
				err = link.Resolve(st, addr)
			}
			if err != nil {
				lineno = st.LineNo
				line = strings.Join(st.Words, " ")
				return
			}
		}
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
		Labels:     maps.Clone(asm.Label),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []uint8
	var links []Link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		if asm.pc+len(data) > memory.SIZE {
			err = ErrProgramOverflow
			return
		}
		st := Statement{LineNo: lineno, Addr: uint16(asm.pc), Words: initial_words, Bytes: data, Links: links}
		asm.Statement = append(asm.Statement, st)
		asm.pc += len(data)
	}()

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrDirectiveSyntax
			return
		}
		var value int
		var label string
		value, label, err = asm.term(words[1], 0)
		if err != nil {
			return
		}
		if len(label) != 0 {
			err = ErrLabelMissing(label)
			return
		}
		if value < 0 || value > memory.MAX_ADDRESS {
			err = ErrOperandRange
			return
		}
		asm.pc = value
	case ".byte":
		if len(words) < 2 {
			err = ErrDirectiveSyntax
			return
		}
		for _, arg := range splitArgs(strings.Join(words[1:], " ")) {
			if strings.HasPrefix(arg, "\"") {
				if len(arg) < 2 || !strings.HasSuffix(arg, "\"") {
					err = ErrStringInvalid
					return
				}
				data = append(data, arg[1:len(arg)-1]...)
				continue
			}
			var value int
			var label string
			var kind LinkKind
			value, label, kind, err = asm.operand(arg)
			if err != nil {
				return
			}
			if len(label) != 0 {
				if kind == LINK_WORD {
					kind = LINK_BYTE
				}
				links = append(links, Link{Label: label, Offset: len(data), Kind: kind})
				value = 0
			}
			if value < -0x80 || value > 0xFF {
				err = ErrOperandRange
				return
			}
			data = append(data, uint8(value))
		}
	case ".word":
		if len(words) < 2 {
			err = ErrDirectiveSyntax
			return
		}
		for _, arg := range splitArgs(strings.Join(words[1:], " ")) {
			var value int
			var label string
			value, label, err = asm.term(arg, 0)
			if err != nil {
				return
			}
			if len(label) != 0 {
				links = append(links, Link{Label: label, Offset: len(data), Kind: LINK_WORD})
				value = 0
			}
			if value < -0x8000 || value > 0xFFFF {
				err = ErrOperandRange
				return
			}
			data = append(data, uint8(value), uint8(value>>8))
		}
	default:
		op, ok := mnemonics[strings.ToUpper(words[0])]
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		data, links, err = asm.instruction(op, strings.Join(words[1:], ""))
	}

	return
}

// zeroPage maps absolute modes to their zero page forms.
var zeroPage = map[Mode]Mode{
	MODE_ABSOLUTE:   MODE_ZERO_PAGE,
	MODE_ABSOLUTE_X: MODE_ZERO_PAGE_X,
	MODE_ABSOLUTE_Y: MODE_ZERO_PAGE_Y,
}

// instruction assembles one instruction at the current address.
func (asm *Assembler) instruction(op Operation, text string) (data []uint8, links []Link, err error) {
	upper := strings.ToUpper(text)

	var mode Mode
	var expr string
	switch {
	case len(text) == 0:
		mode = MODE_IMPLIED
		_, ok := Encode(op, MODE_IMPLIED)
		if !ok {
			mode = MODE_ACCUMULATOR
		}
	case upper == "A":
		mode = MODE_ACCUMULATOR
	case text[0] == '#':
		mode = MODE_IMMEDIATE
		expr = text[1:]
	case text[0] == '(' && strings.HasSuffix(upper, ",X)"):
		mode = MODE_INDIRECT_X
		expr = text[1 : len(text)-3]
	case text[0] == '(' && strings.HasSuffix(upper, "),Y"):
		mode = MODE_INDIRECT_Y
		expr = text[1 : len(text)-3]
	case text[0] == '(' && strings.HasSuffix(upper, ")"):
		mode = MODE_INDIRECT
		expr = text[1 : len(text)-1]
	case strings.HasSuffix(upper, ",X"):
		mode = MODE_ABSOLUTE_X
		expr = text[:len(text)-2]
	case strings.HasSuffix(upper, ",Y"):
		mode = MODE_ABSOLUTE_Y
		expr = text[:len(text)-2]
	default:
		mode = MODE_ABSOLUTE
		expr = text
	}

	if op.Branch() {
		if mode != MODE_ABSOLUTE {
			err = ErrModeInvalid
			return
		}
		mode = MODE_RELATIVE
	}

	var value int
	var label string
	var kind LinkKind
	if mode.Operands() > 0 {
		value, label, kind, err = asm.operand(expr)
		if err != nil {
			return
		}
	}

	known := len(label) == 0

	switch mode {
	case MODE_IMMEDIATE:
		if !known && kind == LINK_WORD {
			kind = LINK_BYTE
		}
		if known && (value < -0x80 || value > 0xFF) {
			err = ErrOperandRange
			return
		}
	case MODE_ABSOLUTE, MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y:
		zp := zeroPage[mode]
		_, has_zp := Encode(op, zp)
		_, has_abs := Encode(op, mode)
		switch {
		case known && value >= 0 && value <= 0xFF && has_zp:
			mode = zp
		case !has_abs && has_zp:
			err = ErrOperandRange
			return
		case !known && kind != LINK_WORD:
			err = ErrOperandInvalid
			return
		}
		if known && (value < 0 || value > memory.MAX_ADDRESS) {
			err = ErrOperandRange
			return
		}
	case MODE_INDIRECT:
		if !known && kind != LINK_WORD {
			err = ErrOperandInvalid
			return
		}
		if known && (value < 0 || value > memory.MAX_ADDRESS) {
			err = ErrOperandRange
			return
		}
	case MODE_INDIRECT_X, MODE_INDIRECT_Y:
		if !known {
			err = ErrLabelMissing(label)
			return
		}
		if value < 0 || value > 0xFF {
			err = ErrOperandRange
			return
		}
	case MODE_RELATIVE:
		kind = LINK_RELATIVE
		if known {
			value -= asm.pc + 2
			if value < -0x80 || value > 0x7F {
				err = ErrBranchRange
				return
			}
		}
	}

	code, ok := Encode(op, mode)
	if !ok {
		err = ErrModeInvalid
		return
	}

	if !known {
		links = append(links, Link{Label: label, Offset: 1, Kind: kind})
		value = 0
	}

	data = append(data, code)
	switch mode.Operands() {
	case 1:
		data = append(data, uint8(value))
	case 2:
		data = append(data, uint8(value), uint8(value>>8))
	}

	return
}
