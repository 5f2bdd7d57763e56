// Exchange method implementations at runtime
//
// Go methods can't be swapped out once a program is compiled, so this
// package carries its own small dispatch runtime: a Class is a mutable table
// from Selector to implementation, and an Object receives messages by
// selector. On top of that it provides the two tricks such runtimes are
// usually abused for:
//
//   - Class.ExchangeSelector swaps the implementations behind two selectors
//     ("swizzling"). Every instance sees the change immediately, and
//     exchanging again restores the original mapping.
//   - Proxy forwards every message and query to an Object through a weak
//     reference, so it can be handed to long-lived things (timers,
//     observers) without keeping the object alive. Object.Proxy returns a
//     cached one.
//
// Limitations:
//   - Exchanged methods must have identical signatures.
//   - There is no method cache; every send walks the class chain.
//   - Exchanging selectors is global. Code that depends on the original
//     behavior can't opt out.
//
// Package trace builds logging on top of ExchangeSelector. Package native
// exchanges real Go functions by patching machine code, with all the caveats
// that implies.
package swizzle
