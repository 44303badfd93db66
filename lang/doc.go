// Package lang parses smartscript templates into an abstract syntax tree.
//
// A template is document text interleaved with tags delimited by "{$" and
// "$}". Text outside of tags is copied verbatim; "\\" and "\{" escape a
// backslash and an opening brace. Three tags are recognized, with
// case-insensitive names:
//
//	{$= element ... $}            echo the given elements
//	{$ FOR v start end [step] $}  repeat the body for v from start to end
//	{$END$}                       close the innermost FOR body
//
// # Grammar
//
// Informal EBNF:
//
//	Document → (Text | Tag)* EOF
//	Tag      → '{$' (Echo | For | End)
//	Echo     → '=' Element+ '$}'
//	For      → 'FOR' Variable Operand Operand Operand? '$}' (Text | Tag)* '{$' End
//	End      → 'END' '$}'
//	Element  → Operand | Function | Operator
//	Operand  → Variable | String | Integer | Double
//	Operator → '+' | '-' | '*' | '/' | '^'
//
// # Example
//
//	Counting:{$ FOR i 1 3 1 $} {$= i "x" @str $}{$END$}
//
// parses to
//
//	Document
//	  Text: "Counting:"
//	  For: i
//	    Start: Integer: 1
//	    End: Integer: 3
//	    Step: Integer: 1
//	    Body
//	      Text: " "
//	      Echo
//	        Variable: i
//	        String: "x"
//	        Function: str
//
// # Ownership
//
// [Parse] returns a fresh tree owned by the caller. [ParseReader] may serve a
// result from its cache, but always as a deep copy. Rendering with [ToText]
// and re-parsing yields a tree equal to the original by [Equal].
//
// Evaluating a tree against runtime values is left to the caller.
package lang
