// Package host implements the message boundary between a host and an
// isolated execution context.
//
// The execution context runs a [Worker]: it boots the interpreter, announces
// READY (or ERROR), and then answers each RUN_CODE with SUCCESS carrying the
// trace or ERROR carrying a message. The host side uses a [Client], which
// waits for READY and correlates replies by request ID.
//
// Messages travel over a [Connection]. Three transports are provided:
// newline-delimited JSON over a byte stream (subprocess stdio), an
// in-process [Pipe], and WebSocket.
package host
