// Package domain holds the Canvas catalog records, the study-aid content
// identifiers and the decoders for generated payloads.
package domain
