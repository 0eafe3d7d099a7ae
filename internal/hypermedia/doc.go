// Package hypermedia holds the machine-readable API description served by the
// demo: the discovery document listing every resource with its URI template,
// allowed methods and invocable functions, the CRC remote object document, and
// the JSON-Patch operations used to update that object in place.
//
// Documents are built from a static skeleton with relative links; only the
// application base URI is applied per request. Encode produces the exact wire
// form: sorted keys, two-space indentation, unescaped HTML characters.
package hypermedia
