package compiler

// runtimeHelpers is appended to every generated program. It mirrors the
// interpreter's value model and error texts so both execution modes agree.
const runtimeHelpers = `
type value struct {
	num   float64
	str   string
	isStr bool
}

func num(n float64) value { return value{num: n} }

func str(s string) value { return value{str: s, isStr: true} }

func boolean(b bool) value {
	if b {
		return value{num: 1}
	}
	return value{}
}

func (v value) String() string {
	if v.isStr {
		return v.str
	}
	return formatNumber(v.num)
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case n == 0:
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// abortSignal is the only panic value the helpers raise. It is a plain
// string so recover matches it under yaegi as well as in a built binary.
const abortSignal = "ailang: abort"

type program struct {
	ctx   context.Context
	in    *bufio.Reader
	out   io.Writer
	vars  map[string]value
	steps int64
	rng   *rand.Rand
	err   error
}

func newProgram(ctx context.Context, stdin io.Reader, stdout io.Writer) *program {
	seed := randomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &program{
		ctx:  ctx,
		in:   bufio.NewReader(stdin),
		out:  stdout,
		vars: make(map[string]value),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// recovered turns an abort back into the stored error; nil after STOP.
func (p *program) recovered(r any) error {
	if s, ok := r.(string); ok && s == abortSignal {
		return p.err
	}
	panic(r)
}

func (p *program) fail(line int, message string) {
	if line <= 0 {
		p.err = fmt.Errorf("Error: %s", message)
	} else {
		p.err = fmt.Errorf("Error at line %d: %s", line, message)
	}
	panic(abortSignal)
}

func (p *program) stop() {
	p.err = nil
	panic(abortSignal)
}

func (p *program) step(line int) {
	if err := p.ctx.Err(); err != nil {
		p.fail(line, "execution cancelled: "+err.Error())
	}
	p.steps++
	if maxSteps > 0 && p.steps > maxSteps {
		p.fail(line, fmt.Sprintf("infinite loop prevented after %d steps", maxSteps))
	}
}

func (p *program) get(line int, name string) value {
	v, ok := p.vars[name]
	if !ok {
		p.fail(line, "Undefined variable: "+name)
	}
	return v
}

func (p *program) set(name string, v value) {
	p.vars[name] = v
}

func (p *program) print(line int, newline bool, items ...value) {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	text := strings.Join(parts, " ")
	if newline {
		text += "\n"
	}
	if _, err := io.WriteString(p.out, text); err != nil {
		p.fail(line, err.Error())
	}
}

func (p *program) input(line int, name, prompt string) {
	if _, err := io.WriteString(p.out, prompt); err != nil {
		p.fail(line, err.Error())
	}
	text, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && text != "") {
		p.fail(line, "Failed to read input: "+err.Error())
	}
	n, perr := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if perr != nil {
		p.fail(line, "Invalid number input")
	}
	p.vars[name] = num(n)
}

func (p *program) truth(line int, v value) bool {
	if v.isStr {
		p.fail(line, "Condition must be a number")
	}
	return v.num != 0
}

func (p *program) number(line int, v value, message string) float64 {
	if v.isStr {
		p.fail(line, message)
	}
	return v.num
}

func (p *program) loopVar(line int, name string) float64 {
	v := p.get(line, name)
	if v.isStr {
		p.fail(line, "FOR variable "+name+" must stay a number")
	}
	return v.num
}

func (p *program) mismatch(line int) {
	p.fail(line, "Invalid operation or type mismatch")
}

func (p *program) negate(line int, v value) value {
	if v.isStr {
		p.mismatch(line)
	}
	return num(-v.num)
}

func (p *program) not(line int, v value) value {
	if v.isStr {
		p.mismatch(line)
	}
	return boolean(v.num == 0)
}

func (p *program) and(line int, left value, right func() value) value {
	if left.isStr {
		p.mismatch(line)
	}
	if left.num == 0 {
		return boolean(false)
	}
	r := right()
	if r.isStr {
		p.mismatch(line)
	}
	return boolean(r.num != 0)
}

func (p *program) or(line int, left value, right func() value) value {
	if left.isStr {
		p.mismatch(line)
	}
	if left.num != 0 {
		return boolean(true)
	}
	r := right()
	if r.isStr {
		p.mismatch(line)
	}
	return boolean(r.num != 0)
}

func (p *program) binary(line int, op string, l, r value) value {
	if l.isStr != r.isStr {
		p.mismatch(line)
	}
	if l.isStr {
		switch op {
		case "+":
			return str(l.str + r.str)
		case "=":
			return boolean(l.str == r.str)
		case "<>":
			return boolean(l.str != r.str)
		case "<":
			return boolean(l.str < r.str)
		case ">":
			return boolean(l.str > r.str)
		case "<=":
			return boolean(l.str <= r.str)
		case ">=":
			return boolean(l.str >= r.str)
		}
		p.mismatch(line)
	}
	a, b := l.num, r.num
	switch op {
	case "+":
		return num(a + b)
	case "-":
		return num(a - b)
	case "*":
		return num(a * b)
	case "/":
		if b == 0 {
			p.fail(line, "Division by zero")
		}
		return num(a / b)
	case "^":
		return num(math.Pow(a, b))
	case "=":
		return boolean(a == b)
	case "<>":
		return boolean(a != b)
	case "<":
		return boolean(a < b)
	case ">":
		return boolean(a > b)
	case "<=":
		return boolean(a <= b)
	case ">=":
		return boolean(a >= b)
	}
	p.mismatch(line)
	return value{}
}

var builtinArity = map[string][2]int{
	"ABS": {1, 1}, "SQR": {1, 1}, "SIN": {1, 1}, "COS": {1, 1}, "TAN": {1, 1},
	"INT": {1, 1}, "LOG": {1, 1}, "EXP": {1, 1}, "RND": {0, 1}, "LEN": {1, 1},
	"MID": {2, 3}, "LEFT": {2, 2}, "RIGHT": {2, 2},
}

func (p *program) call(line int, name string, args ...value) value {
	arity, ok := builtinArity[name]
	if !ok {
		p.fail(line, "Unknown function: "+name)
	}
	if len(args) < arity[0] || len(args) > arity[1] {
		if arity[0] == arity[1] {
			p.fail(line, fmt.Sprintf("%s expects %d argument(s)", name, arity[0]))
		}
		p.fail(line, fmt.Sprintf("%s expects %d to %d argument(s)", name, arity[0], arity[1]))
	}
	numberArg := func(v value) float64 {
		if v.isStr {
			p.fail(line, name+" requires a number argument")
		}
		return v.num
	}
	stringArg := func(v value) []rune {
		if !v.isStr {
			p.fail(line, name+" requires a string argument")
		}
		return []rune(v.str)
	}
	switch name {
	case "ABS":
		return num(math.Abs(numberArg(args[0])))
	case "SQR":
		n := numberArg(args[0])
		if n < 0 {
			p.fail(line, "Cannot take square root of negative number")
		}
		return num(math.Sqrt(n))
	case "SIN":
		return num(math.Sin(numberArg(args[0])))
	case "COS":
		return num(math.Cos(numberArg(args[0])))
	case "TAN":
		return num(math.Tan(numberArg(args[0])))
	case "INT":
		return num(math.Floor(numberArg(args[0])))
	case "LOG":
		n := numberArg(args[0])
		if n <= 0 {
			p.fail(line, "LOG requires a positive argument")
		}
		return num(math.Log(n))
	case "EXP":
		return num(math.Exp(numberArg(args[0])))
	case "RND":
		return num(p.rng.Float64())
	case "LEN":
		return num(float64(len(stringArg(args[0]))))
	case "MID":
		runes := stringArg(args[0])
		start := numberArg(args[1])
		count := float64(len(runes))
		if len(args) == 3 {
			count = numberArg(args[2])
		}
		return str(substring(runes, clampIndex(start, len(runes))-1, clampIndex(count, len(runes))))
	case "LEFT":
		runes := stringArg(args[0])
		return str(substring(runes, 0, clampIndex(numberArg(args[1]), len(runes))))
	case "RIGHT":
		runes := stringArg(args[0])
		count := clampIndex(numberArg(args[1]), len(runes))
		return str(substring(runes, len(runes)-count, count))
	}
	p.fail(line, "Unknown function: "+name)
	return value{}
}

func clampIndex(n float64, length int) int {
	if math.IsNaN(n) {
		return 0
	}
	limit := float64(length + 1)
	n = math.Floor(n)
	if n > limit {
		return length + 1
	}
	if n < -limit {
		return -(length + 1)
	}
	return int(n)
}

func substring(runes []rune, offset, count int) string {
	if count <= 0 {
		return ""
	}
	end := offset + count
	if offset < 0 {
		offset = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if offset >= end {
		return ""
	}
	return string(runes[offset:end])
}
`
