package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for an .ecg chart file.
//
//	chart Report v1 {
//	  meta { title: "ECG ${patient}" }
//	  plot grid { columns: 4  style: bw }
//	  export png { dpi: 300  layout: tight }
//	}
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'chart' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/plot/export).
type Section struct {
	Meta   *MetaSection   `parser:"  @@"`
	Plot   *PlotSection   `parser:"| @@"`
	Export *ExportSection `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Plot != nil:
		return "plot"
	case s.Export != nil:
		return "export"
	default:
		return "unknown"
	}
}

// MetaSection captures title/subject assignments.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// PlotSection selects the layout mode (grid/subplots/single) and its parameters.
type PlotSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Mode  string         `parser:"'plot' @Ident"`
	Block *Block         `parser:"@@"`
}

// ExportSection requests one output file; the block is optional.
type ExportSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Format string         `parser:"'export' @Ident"`
	Block  *Block         `parser:"@@?"`
}

// Block is a delimited list of assignments.
type Block struct {
	Statements []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Value represents a property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
	Array  *ArrayValue    `parser:"| @@"`
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses chart content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses chart content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Lookup 返回 block 中最后一次出现的 key 对应的值。
func (b *Block) Lookup(key string) (*Value, bool) {
	if b == nil {
		return nil, false
	}
	var found *Value
	for _, st := range b.Statements {
		if st != nil && st.Key == key {
			found = st.Value
		}
	}
	return found, found != nil
}

// Text 返回值的文本形式：字符串去引号，数字与标识符保持原样。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Float 将数字值解析为 float64。
func (v *Value) Float() (float64, error) {
	if v == nil || v.Number == nil {
		return 0, fmt.Errorf("期望数字，实际为 %q", v.Text())
	}
	return strconv.ParseFloat(*v.Number, 64)
}

// Int 将数字值解析为 int。
func (v *Value) Int() (int, error) {
	if v == nil || v.Number == nil {
		return 0, fmt.Errorf("期望整数，实际为 %q", v.Text())
	}
	return strconv.Atoi(*v.Number)
}

// Bool 接受 true/false/yes/no/on/off。
func (v *Value) Bool() (bool, error) {
	switch strings.ToLower(v.Text()) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("期望布尔值，实际为 %q", v.Text())
}

// Ints 将数组值解析为 []int。
func (v *Value) Ints() ([]int, error) {
	if v == nil || v.Array == nil {
		return nil, fmt.Errorf("期望整数数组")
	}
	out := make([]int, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		n, err := item.Int()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Strings 将数组值转为 []string，元素可以是字符串或标识符。
func (v *Value) Strings() ([]string, error) {
	if v == nil || v.Array == nil {
		return nil, fmt.Errorf("期望字符串数组")
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if item.Array != nil {
			return nil, fmt.Errorf("数组元素不能嵌套数组")
		}
		out = append(out, item.Text())
	}
	return out, nil
}
