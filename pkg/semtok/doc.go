/*
Package semtok turns metadata spans from the Idris IDE process into semantic
highlighting tokens.

Coordinate systems:
-------------------

	Idris metadata                 Editor tokens
	--------------                 -------------
	absolute character offset  ->  line delta + start delta
	newlines are ordinary chars    relative to the previous token

	text:   "foo : Nat\nbar"
	spans:  {0,3,function} {6,3,type} {10,3,function}

	tokens: [0,0,3,1,0]  [0,6,3,4,0]  [1,0,3,1,0]
	         |  |  | |  |
	         |  |  | |  +-- modifier bits (declaration, always 0)
	         |  |  | +----- index into Legend().TokenTypes
	         |  |  +------- length
	         |  +---------- start column (delta when on the same line)
	         +------------- line delta

Invariants:
-----------
  - spans arrive ordered by start and do not overlap
  - a span never covers a newline; Encode fails with ErrMalformedMetadata
    rather than splitting or truncating the token
*/
package semtok
