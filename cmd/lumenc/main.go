// Command lumenc is a thin driver over the compiler pipeline: lex,
// parse, canonicalize, check, layout, and (for run) evaluate a single
// source file. It exists for smoke-testing the pipeline end to end,
// not as a specified product surface.
package main

func main() {
	Execute()
}
