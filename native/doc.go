// Exchange Go functions at runtime
//
// Exchange swaps two compiled Go functions by rewriting machine code: both
// bodies are copied into an executable arena (with relative addresses
// adjusted) and the first bytes of each function are replaced by a jump to
// the other's copy. Calling the exchanged pair again puts the original code
// back.
//
// This is the same trick the root package plays on method tables, applied to
// real functions, and it's every bit as fragile as it sounds. You shouldn't
// use this outside of tests.
//
// Limitations:
//   - Only supports amd64 on Unix
//   - Relies on internal Go APIs that can break at any time
//   - Silently fails to exchange inlined functions
//   - Silently fails to exchange generic functions
//   - Stack traces through an exchanged function are unreliable
package native
