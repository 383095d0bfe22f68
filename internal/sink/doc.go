// Package sink writes downloaded streams to a gocloud.dev blob bucket under
// templated object names.
//
// The bucket URL decides the backend: "file:///downloads" for a local
// directory, "s3://bucket" for object storage, "mem://" in tests.
//
// # Name Templates
//
// Object names are expanded from a template with these placeholders:
//
//	{id}      item identifier
//	{index}   1-based playlist position, zero-padded to two digits
//	{title}   resolved title, sanitized for filesystem use
//	{author}  uploader or channel name, sanitized
//	{ext}     container extension from the resolved stream
//
// The default template is "{title}.{ext}".
package sink
