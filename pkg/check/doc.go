// Package check finds managed documents in a workspace and reports those
// that still carry injected code.
//
// It backs the pre-commit check: a document synchronized by the engine
// contains the generated sentinels until it is cleaned, and committing it
// in that state would publish generated content as if it were authored.
package check
