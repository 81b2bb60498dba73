// Package server implements the MCP (Model Context Protocol) server for
// PASCAL-VOC annotation tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Codec:
//   - voc_decode: Annotation file or inline XML to JSON document
//   - voc_encode: JSON document to annotation XML
//   - voc_save: JSON document to annotation file
//
// Image-backed:
//   - voc_new: Empty document for an image
//   - voc_crop_object: Pixels under one annotated object
//   - voc_render: Preview with every shape drawn
//
// Documents travel as JSON. Each shape is written as
// {"label", "kind", "points": [[x, y], ...], "difficult"}, where points is
// the shape's flattened coordinate list (see voc.Shape.Points).
//
// # Image Caching
//
// Images are cached by path for the lifetime of the server process, so
// repeated crops and previews of one frame read it from disk once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Logs go to the zap logger given to New and never to stdout.
package server
