// Package fence locates managed code fences in documents.
//
// A managed fence is a fenced code block whose opening line references a
// source file:
//
//	```ts snippetPath="auth/signOut.ts" showLineNumbers
//	```
//
// The opening line is always kept verbatim. Once synchronized, the body is
// wrapped in two sentinel lines so later runs can recognise and replace it,
// and so Strip can turn the block back into a bare reference.
//
// Scanning is stateless: everything the package knows about a block comes
// from the text handed to it.
package fence
