// Package iso10303 provides the entry point for compiling ISO-10303-11
// EXPRESS schemas into Go readers for ISO-10303-21 exchange files (STEP
// files). "Compile" in this case means parsing and analyzing schema source
// and, if asked, generating Go source code from the result.
//
// The various sub-packages represent the compile phases and contain models
// for the intermediate results. Those phases follow:
//  1. Parse into AST.
//     Also see: parser.Parse
//  2. Link each schema: resolve names, flatten inheritance, classify types.
//     Also see: linker.Link
//  3. Generate a Go reader per schema.
//     Also see: codegen.Generate
//
// The generated readers build on the step package, which also parses
// exchange files into a generic parameter tree on its own.
//
// # Resolvers
//
// A Resolver is how the compiler locates the files to compile. It can
// supply source code, which the compiler parses, or an already parsed file,
// in which case parsing is skipped.
//
// # Compiler
//
// A Compiler accepts a list of file names and produces one Result per
// file. Only the Resolver field is required. A minimal Compiler, that
// loads files from the file system relative to the current working
// directory, can be had with the following snippet:
//
//	compiler := iso10303.Compiler{
//		Resolver: &iso10303.SourceResolver{},
//	}
//
// This minimal Compiler will use default parallelism, equal to the number of
// CPU cores detected; it will not generate code; and it will fail fast at
// the first sign of any error. All of these aspects can be customized by
// setting other fields.
package iso10303
