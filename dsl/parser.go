// Package dsl 解析 .vitrine 场景文件：在没有图形界面的场合，
// 用声明式文本描述一个项目的画布、背景、手机框与文本框。
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sceneLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		// 备选项必须从长到短：Go 正则的交替取最左可匹配项，
		// 短形式在前会把 #f2f4f7 切成 #f2f 加残余 token。
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}:;]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(sceneLexer),
		participle.Elide("Whitespace", "LineComment"),
	)
)

// Document 是一个场景文件的根节点：project "名称" { canvas … }。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     StringLiteral  `parser:"Newline* 'project' @String Newline*"`
	Canvases []*CanvasDecl  `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// CanvasDecl 声明一张画布及其内容。Preset 省略时使用默认预设。
type CanvasDecl struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Name   StringLiteral  `parser:"'canvas' @String"`
	Preset *StringLiteral `parser:"( 'preset' @String )? Newline*"`
	Stmts  []*CanvasStmt  `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// CanvasStmt 是画布块内的一条语句。
type CanvasStmt struct {
	Background *BackgroundStmt `parser:"  @@"`
	Phone      *PhoneStmt      `parser:"| @@"`
	Media      *MediaStmt      `parser:"| @@"`
	Text       *TextStmt       `parser:"| @@"`
}

// BackgroundStmt：background solid #rrggbb 或 background gradient #from #to [angle 度]。
type BackgroundStmt struct {
	Mode  string   `parser:"'background' @( 'solid' | 'gradient' )"`
	From  string   `parser:"@Color"`
	To    *string  `parser:"( @Color )?"`
	Angle *float64 `parser:"( 'angle' @Number )?"`
}

// PhoneStmt：phone [offset dx dy] [scale s]，两段均可省略。
type PhoneStmt struct {
	OffsetX *float64 `parser:"'phone' ( 'offset' @Number"`
	OffsetY *float64 `parser:"@Number )?"`
	Scale   *float64 `parser:"( 'scale' @Number )?"`
}

// MediaStmt：media image "name" / media video "name" / media none。
type MediaStmt struct {
	Kind string         `parser:"'media' @( 'image' | 'video' | 'none' )"`
	Name *StringLiteral `parser:"( @String )?"`
}

// TextStmt 声明一个文本框；属性块可省略，全部走默认值。
type TextStmt struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Content StringLiteral  `parser:"'text' @String Newline*"`
	Attrs   []*TextAttr    `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// TextAttr 是键值对属性（x/y/width/size/font/color）。
type TextAttr struct {
	Key    string         `parser:"@Ident ':' Newline*"`
	Str    *StringLiteral `parser:"( @String"`
	Color  *string        `parser:"| @Color"`
	Number *float64       `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident )"`
}

// StringLiteral 在捕获时对 Go 风格字符串做反引号处理。
type StringLiteral string

// Capture 实现 participle.Capture。
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量捕获缺少值")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 io.Reader 解析场景文件。
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString 从字符串解析场景文件。
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
