// Package extraction turns free-form "brain dump" text into a JSON array of
// candidate tasks.
//
// An Extractor runs in one of two modes, fixed when it is constructed:
//
//   - Fallback mode splits the text into lines and builds up to three
//     placeholder candidates locally. It never fails and never calls out.
//   - Provider mode renders a prompt, asks a Completer for exactly one
//     completion, and pulls the first balanced JSON array out of the reply.
//
// Every failure is reported as an *Error whose Kind is one of a closed set,
// so callers can match on it with errors.Is against the exported sentinels
// or with KindOf.
package extraction
