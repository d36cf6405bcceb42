// Package compiler provides the Simple Lang lexer, parser and code generator
// targeting the two-register A/B machine assembly language.
//
// Pipeline: source → Lex → Parse → Generate → A/B assembly text → asm.Assemble
package compiler
