// Package container declares the boundary between mcrawfs and the .mcraw
// byte layout. Per the purpose-and-scope note that container decoding
// internals are assumed external, this package ships only the Decoder
// interface, the metadata types it produces, and the in-memory MemDecoder
// test stand-in — no concrete .mcraw parser.
package container
