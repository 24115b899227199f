// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

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

var (
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
	reSeparator = regexp.MustCompile(`[\s,]+`)
	reLabel     = regexp.MustCompile(`^([A-Za-z_.@][A-Za-z0-9_.@]*)\s*:`)
	reRegister  = regexp.MustCompile(`^[rR]([0-9]+)$`)
)

// Assembler is a single pass macro assembler for the tiny8 system.
type Assembler struct {
	Verbose      bool          // If set, verbosely logs the assembler actions.
	Instructions []Instruction // List of generated instructions.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to instruction indexes.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions, for '@' label mangling.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parseNumber returns the value of a numeric word.
//
// Accepts an optional '#' immediate marker, '$' or '0x' hexadecimal,
// '0b' binary, and signed decimal. A leading '~' inverts the value.
func parseNumber(word string) (value int, err error) {
	text := strings.TrimPrefix(word, "#")

	invert := false
	if strings.HasPrefix(text, "~") {
		invert = true
		text = text[1:]
	}

	base := 10
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "$"):
		base = 16
		text = text[1:]
	case strings.HasPrefix(lower, "0x"):
		base = 16
		text = text[2:]
	case strings.HasPrefix(lower, "0b"):
		base = 2
		text = text[2:]
	}

	v64, perr := strconv.ParseInt(text, base, 64)
	if perr != nil || len(text) == 0 || text[0] == '+' || (base != 10 && text[0] == '-') {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if invert {
		value = ^value
	}

	return
}

// operandOf converts a word into an operand.
func operandOf(word string) (op Operand, err error) {
	match := reRegister.FindStringSubmatch(word)
	if match != nil {
		var n int
		n, err = strconv.Atoi(match[1])
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		op = Reg(n)
		return
	}

	value, err := parseNumber(word)
	if err == nil {
		op = Imm(value)
		return
	}

	if !reLabel.MatchString(word + ":") {
		// Not a symbol either.
		return
	}

	op = Sym(word)
	err = nil
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var number int
		number, err = parseNumber(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(number)
	}
	err = nil

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

// stripComment removes a ';' comment, ignoring ';' inside character literals.
func stripComment(text string) string {
	literals := reCharacter.FindAllStringIndex(text, -1)
	for n, c := range text {
		if c != ';' {
			continue
		}
		quoted := slices.ContainsFunc(literals, func(span []int) bool {
			return n >= span[0] && n < span[1]
		})
		if !quoted {
			return text[:n]
		}
	}

	return text
}

// splitWords splits a line on whitespace and commas.
func splitWords(line string) []string {
	return slices.DeleteFunc(reSeparator.Split(line, -1), func(a string) bool { return len(a) == 0 })
}

// parseLine parses a single line into instruction words, expanding
// equates, labels, and macros.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
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
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	// Labels, possibly several, at the start of the line.
	line = strings.TrimSpace(line)
	for {
		match := reLabel.FindStringSubmatch(line)
		if match == nil {
			break
		}
		label := match[1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = len(asm.Instructions)
		if asm.Verbose {
			log.Printf("asm: %v = %d", label, len(asm.Instructions))
		}
		line = strings.TrimSpace(line[len(match[0]):])
	}

	if strings.HasPrefix(line, ":") {
		err = ErrLabelSyntax
		return
	}

	words = splitWords(line)
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
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
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

		asm.expansions++
		mangle := fmt.Sprintf("%v_%v_", name, asm.expansions)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", mangle)
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

// parseWords converts instruction words into an Instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	ins := Instruction{
		Mnemonic: strings.ToUpper(words[0]),
		LineNo:   lineno,
	}

	if _, ok := ParseMnemonic(ins.Mnemonic); !ok {
		err = ErrInstruction(ins.Mnemonic)
		return
	}

	for _, word := range words[1:] {
		var op Operand
		op, err = operandOf(word)
		if err != nil {
			return
		}
		ins.Operands = append(ins.Operands, op)
	}

	asm.Instructions = append(asm.Instructions, ins)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro
	var source []string

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.expansions = 0
	asm.Instructions = asm.Instructions[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		source = append(source, text)
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := splitWords(line)

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
				LineNo: lineno + 1,
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

	// Final check of jump labels.
	for _, ins := range asm.Instructions {
		for _, op := range ins.Operands {
			if op.Kind != OPERAND_LABEL {
				continue
			}
			_, ok := asm.Label[op.Label]
			if !ok {
				lineno = ins.LineNo
				line = source[lineno-1]
				err = ErrLabelMissing(op.Label)
				return
			}
		}
	}

	prog = &Program{
		Instructions: slices.Clone(asm.Instructions),
		Labels:       maps.Clone(asm.Label),
		Source:       source,
	}

	return
}
